package job

import (
	"Daybook/internal/pkg/calendar"
	"Daybook/internal/pkg/consts"
	"Daybook/internal/pkg/logger"
	redisutil "Daybook/internal/pkg/redis"
	"Daybook/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// WeeklySummaryJob 每周五生成 AI 周报，redis 标记防止重复发送
type WeeklySummaryJob struct {
	summarySvc service.SummaryService
	cal        *calendar.Service
}

func NewWeeklySummaryJob(summarySvc service.SummaryService, cal *calendar.Service) *WeeklySummaryJob {
	return &WeeklySummaryJob{summarySvc: summarySvc, cal: cal}
}

func (s *WeeklySummaryJob) Run() {
	traceID := "job-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	now := time.Now()
	today := s.cal.Today(now)
	if !s.cal.IsBusinessDay(today) {
		log.InfoContext(ctx, "weekly summary skipped: not a business day", "date", today.Format(consts.DateLayout))
		return
	}

	date := today.Format(consts.DateLayout)
	ok, err := redisutil.SetNXWithExpiration(ctx, consts.WeeklySummaryDoneKey+date, "1", 7*24*time.Hour)
	if err != nil {
		// redis 不可用时照常生成，宁可偶发重复也不丢周报
		log.WarnContext(ctx, "weekly summary dedup check failed", "err", err)
	} else if !ok {
		log.InfoContext(ctx, "weekly summary already posted", "date", date)
		return
	}

	if err = s.summarySvc.PostWeekly(ctx, now); err != nil {
		log.ErrorContext(ctx, "post weekly summary failed", "date", date, "err", err)
		return
	}
	log.InfoContext(ctx, "weekly summary posted", "date", date)
}
