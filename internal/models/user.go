package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User 用户模型
type User struct {
	BaseModel
	Username    string     `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Password    string     `json:"-" gorm:"size:255"` // bcrypt 哈希，第三方登录创建的账号为空
	Nickname    string     `json:"nickname" gorm:"size:50"`
	Email       *string    `json:"email" gorm:"size:100"`
	Phone       *string    `json:"phone" gorm:"size:20"`
	Avatar      *string    `json:"avatar" gorm:"size:255"`
	Status      string     `json:"status" gorm:"default:'active';size:20"`
	DeptID      *uint      `json:"deptId" gorm:"index"`
	LoginIP     string     `json:"loginIp" gorm:"size:64"`
	LastLoginAt *time.Time `json:"lastLoginAt"`

	Dept  *Dept  `gorm:"foreignKey:DeptID" json:"dept,omitempty"`
	Roles []Role `gorm:"many2many:sys_user_role;" json:"roles,omitempty"`
}

// TableName 表名
func (User) TableName() string {
	return "sys_user"
}

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// AdminUsername 超级管理员账号，不允许删除或禁用
const AdminUsername = "admin"

// IsActive 是否启用
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// HasPassword 第三方登录首次创建的账号没有密码
func (u *User) HasPassword() bool {
	return u.Password != ""
}

// SetPassword 设置密码
func (u *User) SetPassword(password string) error {
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

// CheckPassword 验证密码，未设置密码时始终失败
func (u *User) CheckPassword(password string) bool {
	if !u.HasPassword() {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// HashPassword 生成 bcrypt 哈希
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
