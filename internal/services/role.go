package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/uiaoin/ts-admin/internal/models"
	apperrors "github.com/uiaoin/ts-admin/pkg/errors"
)

// ErrRoleNotFound 角色不存在
var ErrRoleNotFound = apperrors.NotFound("角色不存在")

type RoleService struct {
	db *gorm.DB
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{db: db}
}

// RoleUpdate 角色更新内容，nil 字段保持不变
type RoleUpdate struct {
	Code      *string
	Name      *string
	Sort      *int
	DataScope *int
	Remark    *string
	MenuIDs   []uint // nil 不修改菜单，空切片清空菜单
}

// GetByID 根据ID获取角色
func (s *RoleService) GetByID(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	err := s.db.WithContext(ctx).Preload("Menus").First(&role, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// Update 更新角色，超级管理员角色编码不可修改
func (s *RoleService) Update(ctx context.Context, id uint, in RoleUpdate) (*models.Role, error) {
	role, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Code != nil && *in.Code != role.Code {
		if role.IsAdmin() {
			return nil, apperrors.InvalidParam("不允许修改超级管理员角色编码")
		}
		var count int64
		s.db.WithContext(ctx).Model(&models.Role{}).Where("code = ? AND id != ?", *in.Code, id).Count(&count)
		if count > 0 {
			return nil, apperrors.InvalidParam("角色编码已存在")
		}
		role.Code = *in.Code
	}
	if in.DataScope != nil {
		if *in.DataScope < models.DataScopeAll || *in.DataScope > models.DataScopeCustom {
			return nil, apperrors.InvalidParam("无效的数据权限范围")
		}
		role.DataScope = *in.DataScope
	}
	if in.Name != nil {
		role.Name = *in.Name
	}
	if in.Sort != nil {
		role.Sort = *in.Sort
	}
	if in.Remark != nil {
		role.Remark = *in.Remark
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Menus").Save(role).Error; err != nil {
			return err
		}
		if in.MenuIDs == nil {
			return nil
		}

		// 清除现有菜单，重新分配
		if err := tx.Model(role).Association("Menus").Clear(); err != nil {
			return fmt.Errorf("清除菜单失败: %w", err)
		}
		role.Menus = nil
		if len(in.MenuIDs) == 0 {
			return nil
		}

		var menus []models.Menu
		if err := tx.Where("id IN ?", in.MenuIDs).Find(&menus).Error; err != nil {
			return err
		}
		if err := tx.Model(role).Association("Menus").Append(menus); err != nil {
			return fmt.Errorf("分配菜单失败: %w", err)
		}
		role.Menus = menus
		return nil
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

// SetStatus 启用/禁用角色，超级管理员角色不能禁用
func (s *RoleService) SetStatus(ctx context.Context, id uint, status string) error {
	if status != models.RoleStatusActive && status != models.RoleStatusDisabled {
		return apperrors.InvalidParam("无效的角色状态")
	}

	role, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role.IsAdmin() && status == models.RoleStatusDisabled {
		return apperrors.InvalidParam("不允许禁用超级管理员角色")
	}

	return s.db.WithContext(ctx).Model(&models.Role{}).Where("id = ?", id).Update("status", status).Error
}

// Delete 删除角色，超级管理员角色和已分配用户的角色不能删除
func (s *RoleService) Delete(ctx context.Context, id uint) error {
	role, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role.IsAdmin() {
		return apperrors.InvalidParam("不允许删除超级管理员角色")
	}

	var assigned int64
	if err := s.db.WithContext(ctx).Table("sys_user_role").Where("role_id = ?", id).Count(&assigned).Error; err != nil {
		return err
	}
	if assigned > 0 {
		return apperrors.InvalidParam("该角色已分配用户，不允许删除")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(role).Association("Menus").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Role{}, id).Error
	})
}
