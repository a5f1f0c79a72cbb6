package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uiaoin/ts-admin/internal/services"
	"github.com/uiaoin/ts-admin/pkg/pagination"
	"github.com/uiaoin/ts-admin/pkg/response"
)

type LoginLogHandler struct {
	service *services.LoginLogService
}

func NewLoginLogHandler(service *services.LoginLogService) *LoginLogHandler {
	return &LoginLogHandler{service: service}
}

// List 分页查询登录日志
func (h *LoginLogHandler) List(c *gin.Context) {
	pageParams := pagination.ParsePageParams(c)

	query := services.LoginLogQuery{
		Username: c.Query("username"),
		Offset:   pageParams.GetOffset(),
		Limit:    pageParams.PageSize,
	}
	if s := c.Query("status"); s != "" {
		status, err := strconv.Atoi(s)
		if err != nil {
			response.BadRequest(c, "状态格式错误")
			return
		}
		query.Status = &status
	}

	logs, total, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		fail(c, err)
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, logs, pageInfo)
}
