package service

import (
	"Daybook/internal/api/config"
	"Daybook/internal/model"
	"Daybook/internal/pkg/calendar"
	"Daybook/internal/pkg/consts"
	"Daybook/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"sort"
	"strings"
	"time"
)

// EscalationService 催报状态机。每个调度 tick 从台账完整重算一次，
// tick 之间不保留任何状态，同一 tick 重跑输出一致。
type EscalationService interface {
	// ComputeRun 计算本业务日的催报快照；非工作日返回 (nil, nil)
	ComputeRun(ctx context.Context, now time.Time) (*model.EscalationRun, error)
	// MissStreak 单个用户截至 asOf 的连续缺报状态
	MissStreak(ctx context.Context, contractor *model.Contractor, asOf time.Time) (model.MissState, error)
	// RollupMessage 汇总快照渲染为管理频道的日终报文
	RollupMessage(run *model.EscalationRun) string
}

type EscalationServiceImpl struct {
	reportRepo     repository.ReportRepo
	contractorRepo repository.ContractorRepo
	cal            *calendar.Service
	lookbackCap    int
	excluded       map[string]struct{}
}

func NewEscalationService(
	reportRepo repository.ReportRepo,
	contractorRepo repository.ContractorRepo,
	cal *calendar.Service,
	cfg config.EscalationConfig,
) EscalationService {
	lookback := cfg.LookbackCap
	if lookback <= 0 {
		lookback = consts.DefaultLookbackCap
	}

	excluded := make(map[string]struct{}, len(cfg.ExcludedUsers))
	for _, id := range cfg.ExcludedUsers {
		excluded[id] = struct{}{}
	}

	return &EscalationServiceImpl{
		reportRepo:     reportRepo,
		contractorRepo: contractorRepo,
		cal:            cal,
		lookbackCap:    lookback,
		excluded:       excluded,
	}
}

func (s *EscalationServiceImpl) ComputeRun(ctx context.Context, now time.Time) (*model.EscalationRun, error) {
	today := s.cal.Today(now)

	// 周末与节假日不产生任何输出
	if !s.cal.IsBusinessDay(today) {
		log.InfoContext(ctx, "escalation run skipped: not a business day", "date", today.Format(consts.DateLayout))
		return nil, nil
	}

	// 单次快照：整轮计算只读一次当日提交集合，保证汇总内部一致
	start, end := s.cal.DayWindow(now)
	submitted, err := s.reportRepo.GetSubmittedUserIDs(ctx, start, end)
	if err != nil {
		log.ErrorContext(ctx, "submitted set fetch failed", "date", today.Format(consts.DateLayout), "err", err)
		return nil, ErrLedgerUnavailable
	}

	contractors, err := s.contractorRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}

	run := &model.EscalationRun{Date: today}

	for _, c := range contractors {
		if _, ok := s.excluded[c.SlackID]; ok {
			continue
		}
		run.RosterSize++

		if _, ok := submitted[c.SlackID]; ok {
			run.SubmittedCount++
			continue
		}

		state, err := s.missStreak(ctx, c, today)
		if err != nil {
			// 单个用户的台账故障不拖垮整轮：记日志，本轮按 tier none 处理
			log.ErrorContext(ctx, "miss streak computation failed, treating user as tier none for this run",
				"user", c.SlackID, "err", err)
			continue
		}

		run.Missing = append(run.Missing, model.TierResult{
			Contractor: c,
			Tier:       model.TierForStreak(state.ConsecutiveMissedDays),
			MissedDays: state.ConsecutiveMissedDays,
		})
	}

	sort.Slice(run.Missing, func(i, j int) bool {
		return strings.ToLower(run.Missing[i].Contractor.Name) < strings.ToLower(run.Missing[j].Contractor.Name)
	})

	log.InfoContext(ctx, "escalation run computed",
		"date", today.Format(consts.DateLayout),
		"roster", run.RosterSize,
		"submitted", run.SubmittedCount,
		"missing", len(run.Missing),
	)
	return run, nil
}

func (s *EscalationServiceImpl) MissStreak(ctx context.Context, contractor *model.Contractor, asOf time.Time) (model.MissState, error) {
	today := s.cal.Today(asOf)

	start, end := s.cal.DayWindow(asOf)
	submitted, err := s.reportRepo.GetSubmittedUserIDs(ctx, start, end)
	if err != nil {
		return model.MissState{}, err
	}
	if _, ok := submitted[contractor.SlackID]; ok {
		return model.MissState{ConsecutiveMissedDays: 0, MissingToday: false}, nil
	}

	return s.missStreak(ctx, contractor, today)
}

// missStreak 从昨天起沿工作日回溯，遇到已提交日、入职日之前或回溯上限即停。
// 今天未提交本身计 1 天。
func (s *EscalationServiceImpl) missStreak(ctx context.Context, contractor *model.Contractor, today time.Time) (model.MissState, error) {
	// 回溯上限按工作日计，查询窗口换算成日历天并留出节假日余量
	since := today.AddDate(0, 0, -(s.lookbackCap*7/5 + 7))
	dates, err := s.reportRepo.GetSubmissionDates(ctx, contractor.SlackID, since)
	if err != nil {
		return model.MissState{}, err
	}

	enrollment := contractor.EnrollmentDate(s.cal.Location())

	count := 1
	check := s.cal.PreviousBusinessDay(today)

	for {
		if check.Before(enrollment) || count >= s.lookbackCap {
			break
		}
		if _, ok := dates[check.Format(consts.DateLayout)]; ok {
			break
		}
		count++
		check = s.cal.PreviousBusinessDay(check)
	}

	return model.MissState{ConsecutiveMissedDays: count, MissingToday: true}, nil
}

func (s *EscalationServiceImpl) RollupMessage(run *model.EscalationRun) string {
	header := fmt.Sprintf("*EOD Submission Report — %s*", run.Date.Format("Monday, Jan 2 2006"))

	if len(run.Missing) == 0 {
		return header + "\n🎉 All contractors submitted their EOD reports today."
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for _, r := range run.Missing {
		fmt.Fprintf(&b, "• %s — Missed %d consecutive working day%s\n",
			r.Contractor.Name, r.MissedDays, plural(r.MissedDays))
	}
	fmt.Fprintf(&b, "%d of %d expected reports missing.", len(run.Missing), run.RosterSize)
	return b.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
