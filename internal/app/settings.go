package app

import (
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/comandero/comandero/internal/domain"
	"github.com/comandero/comandero/pkg/common"
)

// Runtime setting keys stored in sys_config.
const (
	SettingsOplogRetentionDays = "oplog_retention_days"
	SettingsDefaultPageSize    = "default_page_size"
)

type settingSchema struct {
	Category    string
	Name        string
	Default     string
	Description string
}

var settingSchemas = []settingSchema{
	{"system", SettingsOplogRetentionDays, "90", "Days to retain operation log entries"},
	{"web", SettingsDefaultPageSize, "20", "Default page size for paginated listings"},
}

// ConfigManager reads runtime settings from the sys_config table.
type ConfigManager struct {
	app *Application
}

func NewConfigManager(app *Application) *ConfigManager {
	return &ConfigManager{app: app}
}

func (m *ConfigManager) GetString(category, name string) string {
	var cfg domain.SysConfig
	err := m.app.gormDB.Where("type = ? and name = ?", category, name).First(&cfg).Error
	if err != nil {
		return ""
	}
	return cfg.Value
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.GetString(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.GetString(category, name))
}

// checkSettings initializes missing sys_config rows with their defaults.
func (a *Application) checkSettings() {
	for sortid, schema := range settingSchemas {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", schema.Category, schema.Name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:        common.UUIDint64(),
				Sort:      sortid,
				Type:      schema.Category,
				Name:      schema.Name,
				Value:     schema.Default,
				Remark:    schema.Description,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			})
			zap.L().Info("initialized setting",
				zap.String("category", schema.Category),
				zap.String("name", schema.Name),
				zap.String("default", schema.Default))
		}
	}
}
