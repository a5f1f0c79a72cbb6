package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB 内存 sqlite，单连接保证所有查询落在同一个库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, MigrateDB(db))
	return db
}

func TestMigrateDB_CreatesAuthTables(t *testing.T) {
	db := setupTestDB(t)

	for _, table := range []string{"sys_user", "sys_role", "sys_menu", "sys_dept", "sys_login_log", "sys_user_role", "sys_role_menu"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestClose_WithoutInitialize(t *testing.T) {
	prev := DB
	DB = nil
	t.Cleanup(func() { DB = prev })

	assert.NoError(t, Close())
}
