package database

import (
	"gorm.io/gorm"

	"github.com/uiaoin/ts-admin/internal/models"
	"github.com/uiaoin/ts-admin/pkg/logger"
)

// Migrate 执行数据库迁移
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB 对指定连接执行迁移
func MigrateDB(db *gorm.DB) error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting database migration...")

	err := db.AutoMigrate(
		&models.Dept{},
		&models.Menu{},
		&models.Role{},
		&models.User{},
		&models.LoginLog{},
	)
	if err != nil {
		appLogger.Errorf("Database migration failed: %v", err)
		return err
	}

	appLogger.Info("Database migration completed successfully")
	return nil
}
