package models

// Dept 部门模型
type Dept struct {
	BaseModel
	ParentID uint   `gorm:"default:0;index" json:"parentId"`
	Name     string `gorm:"size:50;not null" json:"name"`
	Sort     int    `gorm:"default:0" json:"sort"`
	Status   string `gorm:"size:20;default:'active'" json:"status"`
}

// TableName 表名
func (Dept) TableName() string {
	return "sys_dept"
}
