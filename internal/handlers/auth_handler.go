package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/uiaoin/ts-admin/internal/middleware"
	"github.com/uiaoin/ts-admin/internal/services"
	"github.com/uiaoin/ts-admin/pkg/response"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"` // 未设置过密码的账号可以不填
	NewPassword string `json:"newPassword" binding:"required,min=6,max=50"`
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	client := services.ClientInfo{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	pair, err := h.auth.Login(c.Request.Context(), req.Username, req.Password, client)
	if err != nil {
		fail(c, err)
		return
	}

	response.SuccessWithMessage(c, "登录成功", pair)
}

// Refresh 刷新访问令牌
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	token, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, token)
}

// Logout 退出登录
func (h *AuthHandler) Logout(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "请先登录")
		return
	}

	if err := h.auth.Logout(c.Request.Context(), identity.UserID); err != nil {
		fail(c, err)
		return
	}

	response.SuccessWithMessage(c, "退出成功", nil)
}

// GetInfo 获取当前用户信息
func (h *AuthHandler) GetInfo(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "请先登录")
		return
	}

	info, err := h.auth.GetUserInfo(c.Request.Context(), identity.UserID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, info)
}

// GetMenus 获取当前用户的路由菜单
func (h *AuthHandler) GetMenus(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "请先登录")
		return
	}

	menus, err := h.auth.GetUserMenus(c.Request.Context(), identity.UserID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, menus)
}

// ChangePassword 修改当前用户密码
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "请先登录")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), identity.UserID, req.OldPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}

	response.SuccessWithMessage(c, "密码修改成功", nil)
}
