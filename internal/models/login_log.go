package models

import "time"

// LoginLog 登录日志
type LoginLog struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Username  string    `json:"username" gorm:"size:50;index"`
	IP        string    `json:"ip" gorm:"size:64"`
	Browser   string    `json:"browser" gorm:"size:50"`
	OS        string    `json:"os" gorm:"size:50"`
	Status    int       `json:"status"` // 1 成功 0 失败
	Msg       string    `json:"msg" gorm:"size:255"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// TableName 表名
func (LoginLog) TableName() string {
	return "sys_login_log"
}

// 登录状态常量
const (
	LoginStatusFailure = 0
	LoginStatusSuccess = 1
)
