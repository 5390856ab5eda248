package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"go.uber.org/zap"

	"github.com/comandero/comandero/internal/domain"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		a.SchedSystemMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.purgeOprLogs()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedSystemMonitorTask samples host cpu and memory usage.
func (a *Application) SchedSystemMonitorTask() {
	percents, err := cpu.Percent(0, false)
	if err != nil || len(percents) == 0 {
		return
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return
	}
	zap.L().Debug("system monitor",
		zap.Float64("cpu_percent", percents[0]),
		zap.Float64("mem_percent", vm.UsedPercent))
}

// purgeOprLogs removes operation log entries older than the configured
// retention window.
func (a *Application) purgeOprLogs() {
	days := a.GetSettingsInt64Value("system", SettingsOplogRetentionDays)
	if days <= 0 {
		days = 90
	}
	cutoff := time.Now().Add(-time.Hour * 24 * time.Duration(days))
	res := a.gormDB.Where("opt_time < ?", cutoff).Delete(&domain.SysOprLog{})
	if res.Error != nil {
		zap.L().Error("failed to purge operation logs", zap.Error(res.Error))
		return
	}
	if res.RowsAffected > 0 {
		zap.L().Info("purged operation logs", zap.Int64("rows", res.RowsAffected))
	}
}
