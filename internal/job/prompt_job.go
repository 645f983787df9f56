package job

import (
	"Daybook/internal/api/config"
	"Daybook/internal/model"
	"Daybook/internal/pkg/calendar"
	"Daybook/internal/pkg/consts"
	"Daybook/internal/pkg/logger"
	"Daybook/internal/pkg/slack"
	"Daybook/internal/repository"
	"Daybook/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// PromptJob 下班时间给所有在册外包发 EOD 提示，并建当日跟踪记录
type PromptJob struct {
	contractorSvc service.ContractorService
	trackerRepo   repository.TrackerRepo
	sender        service.MessageSender
	cal           *calendar.Service
	excluded      map[string]struct{}
}

func NewPromptJob(
	contractorSvc service.ContractorService,
	trackerRepo repository.TrackerRepo,
	sender service.MessageSender,
	cal *calendar.Service,
	cfg config.EscalationConfig,
) *PromptJob {
	excluded := make(map[string]struct{}, len(cfg.ExcludedUsers))
	for _, id := range cfg.ExcludedUsers {
		excluded[id] = struct{}{}
	}
	return &PromptJob{
		contractorSvc: contractorSvc,
		trackerRepo:   trackerRepo,
		sender:        sender,
		cal:           cal,
		excluded:      excluded,
	}
}

func (s *PromptJob) Run() {
	traceID := "job-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	now := time.Now()
	today := s.cal.Today(now)
	if !s.cal.IsBusinessDay(today) {
		log.InfoContext(ctx, "prompt job skipped: not a business day", "date", today.Format(consts.DateLayout))
		return
	}

	contractors, err := s.contractorSvc.ListActive(ctx)
	if err != nil {
		log.WarnContext(ctx, "prompt job aborted: roster unavailable", "err", err)
		return
	}

	date := today.Format(consts.DateLayout)
	sent := 0
	for _, c := range contractors {
		if _, ok := s.excluded[c.SlackID]; ok {
			continue
		}
		if err := s.promptOne(ctx, c, date); err != nil {
			log.ErrorContext(ctx, "send eod prompt failed", "user", c.SlackID, "err", err)
			continue
		}
		sent++
	}

	log.InfoContext(ctx, "eod prompts sent", "date", date, "count", sent)
}

func (s *PromptJob) promptOne(ctx context.Context, c *model.Contractor, date string) error {
	if err := s.sender.SendBlocks(ctx, c.SlackID, "Time for your End of Day Report!", slack.EODPromptBlocks()); err != nil {
		return err
	}
	if err := s.trackerRepo.EnsureForDate(ctx, c.SlackID, date); err != nil {
		log.ErrorContext(ctx, "create tracker entry failed", "user", c.SlackID, "err", err)
	}
	return nil
}
