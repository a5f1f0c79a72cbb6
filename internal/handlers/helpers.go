package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uiaoin/ts-admin/pkg/errors"
	"github.com/uiaoin/ts-admin/pkg/logger"
	"github.com/uiaoin/ts-admin/pkg/response"
)

// fail 返回业务错误，内部错误只记录日志
func fail(c *gin.Context, err error) {
	if errors.KindOf(err) == errors.KindInternal {
		logger.GetLogger().WithError(err).WithField("path", c.FullPath()).Error("请求处理失败")
	}
	response.FromError(c, err)
}

// parseID 解析路径中的 :id
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "ID格式错误")
		return 0, false
	}
	return uint(id), true
}
