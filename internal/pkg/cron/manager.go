package cron

import (
	"Daybook/internal/api/config"
	"Daybook/internal/job"
	log "log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine           *cron.Cron
	schedule         config.ScheduleConfig
	promptJob        *job.PromptJob
	reminderJob      *job.ReminderJob
	finalWarningJob  *job.ReminderJob
	rollupJob        *job.RollupJob
	weeklySummaryJob *job.WeeklySummaryJob
	sheetsSyncJob    *job.SheetsSyncJob
}

// NewCronManager 定时任务全部以业务时区解释，与日历口径一致
func NewCronManager(
	loc *time.Location,
	schedule config.ScheduleConfig,
	promptJob *job.PromptJob,
	reminderJob *job.ReminderJob,
	finalWarningJob *job.ReminderJob,
	rollupJob *job.RollupJob,
	weeklySummaryJob *job.WeeklySummaryJob,
	sheetsSyncJob *job.SheetsSyncJob,
) *Manager {
	return &Manager{
		engine:           cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		schedule:         schedule,
		promptJob:        promptJob,
		reminderJob:      reminderJob,
		finalWarningJob:  finalWarningJob,
		rollupJob:        rollupJob,
		weeklySummaryJob: weeklySummaryJob,
		sheetsSyncJob:    sheetsSyncJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	entries := []struct {
		spec string
		j    cron.Job
	}{
		{s.schedule.PromptSpec, s.promptJob},
		{s.schedule.ReminderSpec, s.reminderJob},
		{s.schedule.FinalWarningSpec, s.finalWarningJob},
		{s.schedule.RollupSpec, s.rollupJob},
		{s.schedule.WeeklySummarySpec, s.weeklySummaryJob},
		{s.schedule.SheetsSyncSpec, s.sheetsSyncJob},
	}
	for _, e := range entries {
		if _, err := s.engine.AddJob(e.spec, e.j); err != nil {
			return err
		}
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
