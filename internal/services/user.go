package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/uiaoin/ts-admin/internal/models"
	apperrors "github.com/uiaoin/ts-admin/pkg/errors"
)

// ErrUserNotFound 用户不存在
var ErrUserNotFound = apperrors.NotFound("用户不存在")

// UserStore 身份存储
type UserStore interface {
	// FindByUsername 按用户名查询，包含 角色→菜单 和部门
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// FindByID 按ID查询，包含 角色→菜单 和部门
	FindByID(ctx context.Context, id uint) (*models.User, error)
	// Update 按字段更新
	Update(ctx context.Context, id uint, patch map[string]interface{}) error
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) withRoles(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Roles.Menus").Preload("Dept")
}

// FindByUsername 根据用户名获取用户
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.withRoles(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID 根据ID获取用户
func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.withRoles(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update 更新用户字段
func (s *UserService) Update(ctx context.Context, id uint, patch map[string]interface{}) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(patch)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ========== 受保护账号规则 ==========

func (s *UserService) getPlain(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetStatus 启用/禁用用户，超级管理员不能禁用
func (s *UserService) SetStatus(ctx context.Context, id uint, status string) error {
	if status != models.UserStatusActive && status != models.UserStatusDisabled {
		return apperrors.InvalidParam("无效的用户状态")
	}

	user, err := s.getPlain(ctx, id)
	if err != nil {
		return err
	}
	if user.Username == models.AdminUsername && status == models.UserStatusDisabled {
		return apperrors.InvalidParam("不允许禁用超级管理员")
	}

	return s.db.WithContext(ctx).Model(user).Update("status", status).Error
}

// Delete 删除用户，超级管理员不能删除
func (s *UserService) Delete(ctx context.Context, id uint) error {
	user, err := s.getPlain(ctx, id)
	if err != nil {
		return err
	}
	if user.Username == models.AdminUsername {
		return apperrors.InvalidParam("不允许删除超级管理员")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Association("Roles").Clear(); err != nil {
			return fmt.Errorf("清除用户角色失败: %w", err)
		}
		return tx.Delete(user).Error
	})
}
