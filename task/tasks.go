package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/icodeforyou/histoplot-go/config"
	"github.com/robfig/cron/v3"
)

type Tasks struct {
	cron            *cron.Cron
	cnfg            *config.AppConfig
	MaintenanceTask func()
}

func NewTasks(logger *slog.Logger, db Maintainer, cnfg *config.AppConfig) *Tasks {
	return &Tasks{
		cron:            cron.New(),
		cnfg:            cnfg,
		MaintenanceTask: NewMaintenanceTask(logger.With(slog.String("task", "maintenance")), db, cnfg),
	}
}

func (t *Tasks) Run() error {
	if _, err := t.cron.AddFunc(t.cnfg.Maintenance.GetRunAt(), t.MaintenanceTask); err != nil {
		return fmt.Errorf("scheduling maintenance task: %w", err)
	}
	t.cron.Start()
	return nil
}

// Stop stops the scheduler, the returned context is done when running
// tasks have completed.
func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
