package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/comandero/comandero/config"
	"github.com/comandero/comandero/internal/domain"
	"github.com/comandero/comandero/pkg/common"
)

func setupApp(t *testing.T) *Application {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "app.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	a := NewApplication(config.LoadConfig(""))
	a.OverrideDB(db)
	a.configManager = NewConfigManager(a)
	return a
}

func TestCheckSettings_BootstrapsDefaults(t *testing.T) {
	a := setupApp(t)

	a.checkSettings()

	assert.Equal(t, int64(90), a.GetSettingsInt64Value("system", SettingsOplogRetentionDays))
	assert.Equal(t, int64(20), a.GetSettingsInt64Value("web", SettingsDefaultPageSize))

	// bootstrap is idempotent
	a.checkSettings()
	var count int64
	a.gormDB.Model(&domain.SysConfig{}).Count(&count)
	assert.Equal(t, int64(len(settingSchemas)), count)
}

func TestConfigManager_MissingSetting(t *testing.T) {
	a := setupApp(t)

	assert.Empty(t, a.GetSettingsStringValue("system", "nope"))
	assert.Zero(t, a.GetSettingsInt64Value("system", "nope"))
	assert.False(t, a.GetSettingsBoolValue("system", "nope"))
}

func TestPurgeOprLogs(t *testing.T) {
	a := setupApp(t)
	a.checkSettings()

	old := domain.SysOprLog{
		ID:        common.UUIDint64(),
		OptAction: "order.created",
		OptDesc:   "stale entry",
		OptTime:   time.Now().Add(-time.Hour * 24 * 120),
	}
	fresh := domain.SysOprLog{
		ID:        common.UUIDint64(),
		OptAction: "order.created",
		OptDesc:   "fresh entry",
		OptTime:   time.Now(),
	}
	require.NoError(t, a.gormDB.Create(&old).Error)
	require.NoError(t, a.gormDB.Create(&fresh).Error)

	a.purgeOprLogs()

	var remaining []domain.SysOprLog
	require.NoError(t, a.gormDB.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "fresh entry", remaining[0].OptDesc)
}
