package models

// Role 角色模型
type Role struct {
	BaseModel
	Code      string `gorm:"uniqueIndex;size:50;not null" json:"code"` // 角色编码，如 "admin"
	Name      string `gorm:"size:50;not null" json:"name"`             // 角色名称
	Sort      int    `gorm:"default:0" json:"sort"`                    // 排序
	Status    string `gorm:"size:20;default:'active'" json:"status"`   // 状态：active, disabled
	DataScope int    `gorm:"default:1" json:"dataScope"`               // 数据权限，数值越小范围越大
	Remark    string `gorm:"size:255" json:"remark"`                   // 备注

	Menus []Menu `gorm:"many2many:sys_role_menu;" json:"menus,omitempty"`
}

// TableName 表名
func (Role) TableName() string {
	return "sys_role"
}

// 角色状态常量
const (
	RoleStatusActive   = "active"
	RoleStatusDisabled = "disabled"
)

// AdminRoleCode 超级管理员角色：不可改编码、不可禁用、不可删除，拥有全部权限
const AdminRoleCode = "admin"

// 数据权限范围
const (
	DataScopeAll             = 1 // 全部数据
	DataScopeDeptAndChildren = 2 // 本部门及以下
	DataScopeDept            = 3 // 本部门
	DataScopeSelf            = 4 // 仅本人
	DataScopeCustom          = 5 // 自定义部门
)

// IsAdmin 是否超级管理员角色
func (r *Role) IsAdmin() bool {
	return r.Code == AdminRoleCode
}
