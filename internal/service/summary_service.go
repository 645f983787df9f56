package service

import (
	"Daybook/internal/api/config"
	"Daybook/internal/model"
	"Daybook/internal/pkg/calendar"
	"Daybook/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"sort"
	"strings"
	"time"
)

// SummaryGenerator 文本生成能力，生产环境绑定 llm.GenerateWeeklySummary
type SummaryGenerator func(ctx context.Context, reportText string) (string, error)

// SummaryService 周报生成：取整周报告，按人分组喂给模型，结果发管理频道
type SummaryService interface {
	GenerateWeekly(ctx context.Context, now time.Time) (string, error)
	PostWeekly(ctx context.Context, now time.Time) error
}

type SummaryServiceImpl struct {
	reportRepo        repository.ReportRepo
	contractorRepo    repository.ContractorRepo
	generate          SummaryGenerator
	sender            MessageSender
	cal               *calendar.Service
	managementChannel string
}

func NewSummaryService(
	reportRepo repository.ReportRepo,
	contractorRepo repository.ContractorRepo,
	generate SummaryGenerator,
	sender MessageSender,
	cal *calendar.Service,
	cfg config.SlackConfig,
) SummaryService {
	return &SummaryServiceImpl{
		reportRepo:        reportRepo,
		contractorRepo:    contractorRepo,
		generate:          generate,
		sender:            sender,
		cal:               cal,
		managementChannel: cfg.ManagementChannel,
	}
}

func (s *SummaryServiceImpl) GenerateWeekly(ctx context.Context, now time.Time) (string, error) {
	since := s.cal.Today(now).AddDate(0, 0, -7)
	reports, err := s.reportRepo.ListReportsSince(ctx, since)
	if err != nil {
		return "", err
	}
	if len(reports) == 0 {
		return "", nil
	}

	names := s.nameIndex(ctx)
	return s.generate(ctx, FormatReportsForPrompt(reports, names))
}

func (s *SummaryServiceImpl) PostWeekly(ctx context.Context, now time.Time) error {
	summary, err := s.GenerateWeekly(ctx, now)
	if err != nil {
		return err
	}
	if summary == "" {
		log.InfoContext(ctx, "no reports this week, skipping summary")
		return s.sender.SendMessage(ctx, s.managementChannel, "📊 Weekly Summary: no EOD reports were submitted this week.")
	}

	header := fmt.Sprintf("*📊 Weekly EOD Summary — week of %s*\n\n", s.cal.Today(now).AddDate(0, 0, -7).Format("Jan 2 2006"))
	return s.sender.SendMessage(ctx, s.managementChannel, header+summary)
}

func (s *SummaryServiceImpl) nameIndex(ctx context.Context) map[string]string {
	names := make(map[string]string)
	contractors, err := s.contractorRepo.ListActive(ctx)
	if err != nil {
		log.WarnContext(ctx, "roster lookup failed for summary, using raw ids", "err", err)
		return names
	}
	for _, c := range contractors {
		names[c.SlackID] = c.Name
	}
	return names
}

// FormatReportsForPrompt 报告拼装为模型输入：按日期排序，--- 分隔
func FormatReportsForPrompt(reports []*model.EODReport, names map[string]string) string {
	sorted := make([]*model.EODReport, len(reports))
	copy(sorted, reports)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SubmittedAt.Before(sorted[j].SubmittedAt)
	})

	parts := make([]string, 0, len(sorted))
	for _, r := range sorted {
		name := names[r.UserID]
		if name == "" {
			name = r.UserID
		}
		parts = append(parts, fmt.Sprintf(`Date: %s
Contractor: %s
Short-term Projects: %s
Long-term Projects: %s
Blockers: %s
Goals: %s
Tools Used: %s
Help Needed: %s
Client Feedback: %s`,
			r.Date, name,
			orNone(r.ShortTermProjects), orNone(r.LongTermProjects),
			orNone(r.Blockers), orNone(r.NextDayGoals),
			orNone(r.ToolsUsed), orNone(r.HelpNeeded), orNone(r.ClientFeedback)))
	}
	return strings.Join(parts, "\n---\n")
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}
