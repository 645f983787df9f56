package service

import (
	"Daybook/internal/api/config"
	"Daybook/internal/api/dto"
	"Daybook/internal/model"
	"Daybook/internal/pkg/calendar"
	"Daybook/internal/pkg/consts"
	"Daybook/internal/pkg/slack"
	"Daybook/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
)

// ReportService 报告提交链路。业务日期一律由提交时刻换算业务时区得出，
// 存储的 date 字符串只是与之保持一致的冗余缓存。
type ReportService interface {
	SubmitReport(ctx context.Context, slackID string, fields *dto.ReportFields) (*model.EODReport, error)
	EditReport(ctx context.Context, reportID string, fields *dto.ReportFields) (*model.EODReport, error)
	GetTodayReport(ctx context.Context, slackID string, now time.Time) (*model.EODReport, error)
	StatusText(ctx context.Context, slackID string, now time.Time) (string, error)
	ListRecent(ctx context.Context, since time.Time) ([]*dto.ReportItem, error)
}

type ReportServiceImpl struct {
	reportRepo     repository.ReportRepo
	trackerRepo    repository.TrackerRepo
	contractorRepo repository.ContractorRepo
	escalationSvc  EscalationService
	sender         MessageSender
	cal            *calendar.Service
	reportsChannel string
}

func NewReportService(
	reportRepo repository.ReportRepo,
	trackerRepo repository.TrackerRepo,
	contractorRepo repository.ContractorRepo,
	escalationSvc EscalationService,
	sender MessageSender,
	cal *calendar.Service,
	cfg config.SlackConfig,
) ReportService {
	return &ReportServiceImpl{
		reportRepo:     reportRepo,
		trackerRepo:    trackerRepo,
		contractorRepo: contractorRepo,
		escalationSvc:  escalationSvc,
		sender:         sender,
		cal:            cal,
		reportsChannel: cfg.ReportsChannel,
	}
}

func (s *ReportServiceImpl) SubmitReport(ctx context.Context, slackID string, fields *dto.ReportFields) (*model.EODReport, error) {
	if slackID == "" || fields == nil {
		return nil, ErrParamInvalid
	}

	// 停用人员不在名册内，拒收其报告
	if contractor, err := s.contractorRepo.GetBySlackID(ctx, slackID); err == nil && contractor != nil && !contractor.Active {
		return nil, ErrContractorInactive
	}

	now := time.Now()
	date := s.cal.Today(now).Format(consts.DateLayout)

	report := &model.EODReport{
		UserID:      slackID,
		Date:        date,
		SubmittedAt: now,
	}
	if err := copier.Copy(report, fields); err != nil {
		return nil, err
	}

	// 同日已有报告则转为编辑，归属日期不变
	if existing, err := s.reportRepo.GetReportForDate(ctx, slackID, date); err == nil && existing != nil {
		return s.EditReport(ctx, existing.ID.Hex(), fields)
	}

	id, err := s.reportRepo.InsertReport(ctx, report)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "eod report saved", "user", slackID, "date", date, "report_id", id)

	if err = s.trackerRepo.MarkSubmitted(ctx, slackID, date); err != nil {
		log.ErrorContext(ctx, "mark tracker submitted failed", "user", slackID, "err", err)
	}

	s.postToChannel(ctx, slackID, report)
	return report, nil
}

func (s *ReportServiceImpl) EditReport(ctx context.Context, reportID string, fields *dto.ReportFields) (*model.EODReport, error) {
	existing, err := s.reportRepo.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrReportNotFound
	}

	if err = copier.Copy(existing, fields); err != nil {
		return nil, err
	}
	if err = s.reportRepo.UpdateReport(ctx, reportID, existing); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "eod report updated", "user", existing.UserID, "report_id", reportID)

	s.postToChannel(ctx, existing.UserID, existing)
	return existing, nil
}

func (s *ReportServiceImpl) GetTodayReport(ctx context.Context, slackID string, now time.Time) (*model.EODReport, error) {
	date := s.cal.Today(now).Format(consts.DateLayout)
	return s.reportRepo.GetReportForDate(ctx, slackID, date)
}

// StatusText "status" 私信命令的回复：今日是否已交与当前连续缺报
func (s *ReportServiceImpl) StatusText(ctx context.Context, slackID string, now time.Time) (string, error) {
	report, err := s.GetTodayReport(ctx, slackID, now)
	if err != nil {
		return "", err
	}
	if report != nil {
		return fmt.Sprintf("✅ You submitted today's EOD report at %s.",
			report.SubmittedAt.In(s.cal.Location()).Format("15:04")), nil
	}

	contractor, err := s.contractorRepo.GetBySlackID(ctx, slackID)
	if err != nil || contractor == nil {
		return "📭 You have not submitted today's EOD report yet. Use `/eod` to submit.", nil
	}

	state, err := s.escalationSvc.MissStreak(ctx, contractor, now)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("📭 You have not submitted today's EOD report. Current streak: %d missed working day%s. Use `/eod` to submit.",
		state.ConsecutiveMissedDays, plural(state.ConsecutiveMissedDays)), nil
}

func (s *ReportServiceImpl) ListRecent(ctx context.Context, since time.Time) ([]*dto.ReportItem, error) {
	reports, err := s.reportRepo.ListReportsSince(ctx, since)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ReportItem, 0, len(reports))
	for _, r := range reports {
		item := &dto.ReportItem{}
		if err := copier.Copy(item, r); err != nil {
			continue
		}
		item.ID = r.ID.Hex()
		items = append(items, item)
	}
	return items, nil
}

func (s *ReportServiceImpl) postToChannel(ctx context.Context, slackID string, report *model.EODReport) {
	name := slackID
	if contractor, err := s.contractorRepo.GetBySlackID(ctx, slackID); err == nil && contractor != nil {
		name = contractor.Name
	}

	blocks := slack.ReportBlocks(name, report)
	if err := s.sender.SendBlocks(ctx, s.reportsChannel, "EOD Report - "+name, blocks); err != nil {
		log.ErrorContext(ctx, "post report to channel failed", "user", slackID, "err", err)
	}
}
