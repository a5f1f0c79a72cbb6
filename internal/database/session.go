package database

import (
	"sync"

	"github.com/uiaoin/ts-admin/pkg/config"
	"github.com/uiaoin/ts-admin/pkg/session"
)

var (
	sessionStoreInstance *session.RedisStore
	sessionStoreOnce     sync.Once
)

// GetSessionStore 获取Redis会话存储的单例实例
func GetSessionStore() *session.RedisStore {
	sessionStoreOnce.Do(func() {
		cfg := config.GetConfig()
		sessionStoreInstance = session.NewRedisStore(&session.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	})
	return sessionStoreInstance
}

// CloseSessionStore 关闭Redis连接
func CloseSessionStore() error {
	if sessionStoreInstance != nil {
		return sessionStoreInstance.Close()
	}
	return nil
}
