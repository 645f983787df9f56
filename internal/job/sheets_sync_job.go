package job

import (
	"Daybook/internal/pkg/calendar"
	"Daybook/internal/pkg/consts"
	"Daybook/internal/pkg/logger"
	redisutil "Daybook/internal/pkg/redis"
	"Daybook/internal/pkg/sheets"
	"Daybook/internal/repository"
	"Daybook/internal/service"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// SheetsSyncJob 增量导出提交记录到 Google Sheets，并重写当日跟踪页。
// redis 游标记录上次导出时间，丢失时回退到最近 24 小时。
type SheetsSyncJob struct {
	client        *sheets.Client
	reportRepo    repository.ReportRepo
	trackerRepo   repository.TrackerRepo
	contractorSvc service.ContractorService
	cal           *calendar.Service
}

func NewSheetsSyncJob(
	client *sheets.Client,
	reportRepo repository.ReportRepo,
	trackerRepo repository.TrackerRepo,
	contractorSvc service.ContractorService,
	cal *calendar.Service,
) *SheetsSyncJob {
	return &SheetsSyncJob{
		client:        client,
		reportRepo:    reportRepo,
		trackerRepo:   trackerRepo,
		contractorSvc: contractorSvc,
		cal:           cal,
	}
}

func (s *SheetsSyncJob) Run() {
	if s.client == nil {
		return
	}
	traceID := "job-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	now := time.Now()
	if err := s.syncSubmissions(ctx, now); err != nil {
		log.ErrorContext(ctx, "sheets submissions sync failed", "err", err)
	}
	if err := s.syncTracker(ctx, now); err != nil {
		log.ErrorContext(ctx, "sheets tracker sync failed", "err", err)
	}
}

func (s *SheetsSyncJob) syncSubmissions(ctx context.Context, now time.Time) error {
	since := s.cursor(ctx, now)
	reports, err := s.reportRepo.ListReportsSince(ctx, since)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return nil
	}

	names := make(map[string]string, len(reports))
	for _, r := range reports {
		if _, ok := names[r.UserID]; !ok {
			names[r.UserID] = s.contractorSvc.ResolveName(ctx, r.UserID)
		}
	}

	if err = s.client.AppendSubmissions(ctx, reports, names); err != nil {
		return err
	}

	// 仓储按 submitted_at 倒序返回，首条即最新
	cursor := reports[0].SubmittedAt.Unix()
	if err = redisutil.SetWithExpiration(ctx, consts.SheetsSyncCursorKey, strconv.FormatInt(cursor, 10), 0); err != nil {
		log.WarnContext(ctx, "save sheets cursor failed", "err", err)
	}
	log.InfoContext(ctx, "submissions exported", "count", len(reports))
	return nil
}

func (s *SheetsSyncJob) syncTracker(ctx context.Context, now time.Time) error {
	date := s.cal.Today(now).Format(consts.DateLayout)
	trackers, err := s.trackerRepo.ListForDate(ctx, date)
	if err != nil {
		return err
	}
	if len(trackers) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(trackers))
	for _, t := range trackers {
		rows = append(rows, []interface{}{
			s.contractorSvc.ResolveName(ctx, t.UserID),
			t.UserID,
			t.Date,
			t.Submitted,
			t.ReminderCount,
		})
	}
	return s.client.UpdateTracker(ctx, rows)
}

func (s *SheetsSyncJob) cursor(ctx context.Context, now time.Time) time.Time {
	fallback := now.Add(-24 * time.Hour)
	raw, err := redisutil.GetValue(ctx, consts.SheetsSyncCursorKey)
	if err != nil || raw == "" {
		return fallback
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return time.Unix(sec+1, 0)
}
