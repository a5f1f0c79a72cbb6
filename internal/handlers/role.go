package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/uiaoin/ts-admin/internal/services"
	"github.com/uiaoin/ts-admin/pkg/response"
)

type UpdateRoleRequest struct {
	Code      *string `json:"code" binding:"omitempty,min=2,max=50"`
	Name      *string `json:"name" binding:"omitempty,min=1,max=50"`
	Sort      *int    `json:"sort"`
	DataScope *int    `json:"dataScope" binding:"omitempty,min=1,max=5"`
	Remark    *string `json:"remark" binding:"omitempty,max=255"`
	MenuIDs   []uint  `json:"menuIds"`
}

type UpdateRoleStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active disabled"`
}

type RoleHandler struct {
	service *services.RoleService
}

func NewRoleHandler(service *services.RoleService) *RoleHandler {
	return &RoleHandler{
		service: service,
	}
}

// Update 更新角色
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	role, err := h.service.Update(c.Request.Context(), id, services.RoleUpdate{
		Code:      req.Code,
		Name:      req.Name,
		Sort:      req.Sort,
		DataScope: req.DataScope,
		Remark:    req.Remark,
		MenuIDs:   req.MenuIDs,
	})
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, role)
}

// UpdateStatus 启用/禁用角色
func (h *RoleHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateRoleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		fail(c, err)
		return
	}

	response.SuccessWithMessage(c, "状态更新成功", nil)
}

// Delete 删除角色
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
