package job

import (
	"Daybook/internal/pkg/logger"
	"Daybook/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// RollupJob 每个工作日收尾时向管理频道发送提交情况汇总
type RollupJob struct {
	escalationSvc service.EscalationService
	notifySvc     service.NotifyService
}

func NewRollupJob(escalationSvc service.EscalationService, notifySvc service.NotifyService) *RollupJob {
	return &RollupJob{escalationSvc: escalationSvc, notifySvc: notifySvc}
}

func (s *RollupJob) Run() {
	traceID := "job-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	run, err := s.escalationSvc.ComputeRun(ctx, time.Now())
	if err != nil {
		log.ErrorContext(ctx, "rollup run failed", "err", err)
		return
	}
	if run == nil {
		return
	}

	text := s.escalationSvc.RollupMessage(run)
	if err = s.notifySvc.SendRollup(ctx, text); err != nil {
		log.ErrorContext(ctx, "send rollup failed", "date", run.Date, "err", err)
		return
	}
	log.InfoContext(ctx, "rollup posted", "date", run.Date, "missing", len(run.Missing))
}
