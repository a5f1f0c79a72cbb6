package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/uiaoin/ts-admin/internal/middleware"
	"github.com/uiaoin/ts-admin/internal/models"
	"github.com/uiaoin/ts-admin/internal/services"
	"github.com/uiaoin/ts-admin/pkg/logger"
	"github.com/uiaoin/ts-admin/pkg/response"
)

type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active disabled"`
}

type UserHandler struct {
	service *services.UserService
	auth    *services.AuthService
}

func NewUserHandler(service *services.UserService, auth *services.AuthService) *UserHandler {
	return &UserHandler{
		service: service,
		auth:    auth,
	}
}

// KickOut 强制下线
func (h *UserHandler) KickOut(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.auth.KickOut(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	response.SuccessWithMessage(c, "已强制下线", nil)
}

// UpdateStatus 启用/禁用用户，禁用后立即下线
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if identity, ok := middleware.CurrentIdentity(c); ok && identity.UserID == id && req.Status == models.UserStatusDisabled {
		response.BadRequest(c, "不能禁用当前登录用户")
		return
	}

	ctx := c.Request.Context()
	if err := h.service.SetStatus(ctx, id, req.Status); err != nil {
		fail(c, err)
		return
	}
	if req.Status == models.UserStatusDisabled {
		h.dropSession(c, id)
	}

	response.SuccessWithMessage(c, "状态更新成功", nil)
}

// Delete 删除用户
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if identity, ok := middleware.CurrentIdentity(c); ok && identity.UserID == id {
		response.BadRequest(c, "不能删除当前登录用户")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	h.dropSession(c, id)

	response.SuccessWithMessage(c, "删除成功", nil)
}

// dropSession 用户已变更，会话清理失败只记录
func (h *UserHandler) dropSession(c *gin.Context, id uint) {
	if err := h.auth.Logout(c.Request.Context(), id); err != nil {
		logger.GetLogger().WithError(err).WithField("user_id", id).Warn("清理用户会话失败")
	}
}
