package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/uiaoin/ts-admin/internal/models"
)

// LoginAttempt 一次登录尝试的审计记录
type LoginAttempt struct {
	Username string
	IP       string
	Browser  string
	OS       string
	Success  bool
	Message  string
}

// LoginRecorder 登录审计，写入失败不影响登录流程
type LoginRecorder interface {
	RecordLoginAttempt(ctx context.Context, attempt LoginAttempt) error
}

type LoginLogService struct {
	db *gorm.DB
}

func NewLoginLogService(db *gorm.DB) *LoginLogService {
	return &LoginLogService{db: db}
}

// RecordLoginAttempt 记录登录日志
func (s *LoginLogService) RecordLoginAttempt(ctx context.Context, attempt LoginAttempt) error {
	status := models.LoginStatusFailure
	if attempt.Success {
		status = models.LoginStatusSuccess
	}

	log := &models.LoginLog{
		Username: attempt.Username,
		IP:       attempt.IP,
		Browser:  attempt.Browser,
		OS:       attempt.OS,
		Status:   status,
		Msg:      attempt.Message,
	}
	return s.db.WithContext(ctx).Create(log).Error
}

// LoginLogQuery 登录日志查询条件
type LoginLogQuery struct {
	Username string
	Status   *int
	Offset   int
	Limit    int
}

// List 分页查询登录日志，按时间倒序
func (s *LoginLogService) List(ctx context.Context, q LoginLogQuery) ([]models.LoginLog, int64, error) {
	var logs []models.LoginLog
	var total int64

	query := s.db.WithContext(ctx).Model(&models.LoginLog{})
	if q.Username != "" {
		query = query.Where("username LIKE ?", "%"+q.Username+"%")
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Order("id DESC").Offset(q.Offset).Limit(q.Limit).Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// PurgeBefore 删除早于 cutoff 的登录日志
func (s *LoginLogService) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.LoginLog{})
	return result.RowsAffected, result.Error
}
