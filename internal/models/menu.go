package models

// Menu 菜单模型，树形结构：目录 / 菜单 / 按钮
type Menu struct {
	BaseModel
	ParentID   uint   `gorm:"default:0;index" json:"parentId"`        // 父菜单ID，0 为根
	Name       string `gorm:"size:50;not null" json:"name"`           // 菜单名称
	Path       string `gorm:"size:200" json:"path"`                   // 路由地址
	Component  string `gorm:"size:255" json:"component"`              // 组件路径
	Redirect   string `gorm:"size:255" json:"redirect"`               // 重定向地址
	Permission string `gorm:"size:100" json:"permission"`             // 权限标识，如 "system:user:add"
	Type       int    `gorm:"default:0" json:"type"`                  // 菜单类型
	Icon       string `gorm:"size:100" json:"icon"`                   // 图标
	Sort       int    `gorm:"default:0" json:"sort"`                  // 排序
	Visible    bool   `gorm:"default:true" json:"visible"`            // 是否显示
	Status     string `gorm:"size:20;default:'active'" json:"status"` // 状态
	IsExternal bool   `gorm:"default:false" json:"isExternal"`        // 是否外链
	IsCache    bool   `gorm:"default:true" json:"isCache"`            // 是否缓存
}

// TableName 表名
func (Menu) TableName() string {
	return "sys_menu"
}

// 菜单类型常量
const (
	MenuTypeDirectory = 0 // 目录
	MenuTypePage      = 1 // 菜单
	MenuTypeButton    = 2 // 按钮
)

// 菜单状态常量
const (
	MenuStatusActive   = "active"
	MenuStatusDisabled = "disabled"
)

// IsRoute 启用的目录和菜单才作为前端路由
func (m *Menu) IsRoute() bool {
	return m.Status == MenuStatusActive && m.Type != MenuTypeButton
}
