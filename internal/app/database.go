package app

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/comandero/comandero/config"
)

// getDatabase opens the configured database. Postgres is the production
// store; sqlite keeps the single-file deployment of the original system
// and backs the test suite.
func getDatabase(cfg *config.AppConfig) *gorm.DB {
	logLevel := gormlogger.Warn
	if cfg.System.Debug {
		logLevel = gormlogger.Info
	}
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Database.Type {
	case "postgres":
		db, err = gorm.Open(postgres.Open(cfg.PostgresDSN()), gormConfig)
	default:
		db, err = gorm.Open(sqlite.Open(cfg.SqliteDSN()), gormConfig)
	}
	if err != nil {
		zap.S().Panicf("database connection failed: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		zap.S().Panicf("database handle unavailable: %v", err)
	}
	if cfg.Database.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxConn)
	}
	if cfg.Database.IdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.IdleConn)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db
}
