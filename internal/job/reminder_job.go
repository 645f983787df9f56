package job

import (
	"Daybook/internal/pkg/logger"
	"Daybook/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// ReminderJob 扫描未提交名单并按档次发送提醒，stage 区分常规提醒与最后警告
type ReminderJob struct {
	escalationSvc service.EscalationService
	notifySvc     service.NotifyService
	stage         string
}

func NewReminderJob(escalationSvc service.EscalationService, notifySvc service.NotifyService, stage string) *ReminderJob {
	return &ReminderJob{
		escalationSvc: escalationSvc,
		notifySvc:     notifySvc,
		stage:         stage,
	}
}

func (s *ReminderJob) Run() {
	traceID := "job-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	run, err := s.escalationSvc.ComputeRun(ctx, time.Now())
	if err != nil {
		log.ErrorContext(ctx, "reminder run failed", "stage", s.stage, "err", err)
		return
	}
	if run == nil {
		return
	}

	s.notifySvc.Dispatch(ctx, run, s.stage)
	log.InfoContext(ctx, "reminder run finished",
		"stage", s.stage,
		"date", run.Date,
		"roster", run.RosterSize,
		"submitted", run.SubmittedCount,
		"missing", len(run.Missing),
	)
}
