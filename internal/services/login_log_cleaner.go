package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/uiaoin/ts-admin/pkg/logger"
)

// LoginLogCleaner 按保留天数定期清理登录日志
type LoginLogCleaner struct {
	logs      *LoginLogService
	cron      *cron.Cron
	spec      string
	retention time.Duration
	running   bool
}

// NewLoginLogCleaner 创建清理任务，retentionDays <= 0 时不清理
func NewLoginLogCleaner(logs *LoginLogService, spec string, retentionDays int) *LoginLogCleaner {
	return &LoginLogCleaner{
		logs:      logs,
		cron:      cron.New(),
		spec:      spec,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
	}
}

// Start 启动调度器
func (c *LoginLogCleaner) Start() error {
	if c.running {
		return fmt.Errorf("调度器已经在运行")
	}
	if c.retention <= 0 {
		logger.GetLogger().Info("登录日志保留天数未设置，跳过清理任务")
		return nil
	}

	if _, err := c.cron.AddFunc(c.spec, func() { _, _ = c.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("无效的cron表达式 %s: %w", c.spec, err)
	}

	c.cron.Start()
	c.running = true
	logger.GetLogger().Infof("登录日志清理任务已启动，cron: %s，保留 %s", c.spec, c.retention)
	return nil
}

// Stop 停止调度器
func (c *LoginLogCleaner) Stop() {
	if !c.running {
		return
	}
	<-c.cron.Stop().Done()
	c.running = false
}

// RunOnce 立即执行一次清理
func (c *LoginLogCleaner) RunOnce(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-c.retention)
	removed, err := c.logs.PurgeBefore(ctx, cutoff)
	if err != nil {
		logger.GetLogger().Errorf("清理登录日志失败: %v", err)
		return 0, err
	}
	if removed > 0 {
		logger.GetLogger().Infof("清理了 %d 条过期登录日志", removed)
	}
	return removed, nil
}
