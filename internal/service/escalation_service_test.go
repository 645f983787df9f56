package service

import (
	"Daybook/internal/api/config"
	"Daybook/internal/model"
	"Daybook/internal/pkg/calendar"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCalendar(t *testing.T) *calendar.Service {
	t.Helper()
	cal, err := calendar.NewService(config.CalendarConfig{
		Timezone: "America/New_York",
		Holidays: []config.HolidayConfig{
			{Date: "2026-12-25", Label: "Christmas Day"},
		},
	})
	require.NoError(t, err)
	return cal
}

func contractorAt(id, name string, enrolled time.Time) *model.Contractor {
	return &model.Contractor{
		SlackID:    id,
		Name:       name,
		Active:     true,
		EnrolledAt: enrolled,
	}
}

// 2026-08-28 是周五，18:00 业务时区内的一个普通调度时刻
func fridayEvening(t *testing.T, cal *calendar.Service) time.Time {
	t.Helper()
	return time.Date(2026, 8, 28, 18, 0, 0, 0, cal.Location())
}

func TestComputeRunSkipsWeekend(t *testing.T) {
	cal := newTestCalendar(t)
	reportRepo := new(mockReportRepo)
	contractorRepo := new(mockContractorRepo)
	svc := NewEscalationService(reportRepo, contractorRepo, cal, config.EscalationConfig{})

	saturday := time.Date(2026, 8, 29, 18, 0, 0, 0, cal.Location())
	run, err := svc.ComputeRun(context.Background(), saturday)

	require.NoError(t, err)
	assert.Nil(t, run)
	reportRepo.AssertNotCalled(t, "GetSubmittedUserIDs", mock.Anything, mock.Anything, mock.Anything)
}

func TestComputeRunAllSubmitted(t *testing.T) {
	cal := newTestCalendar(t)
	now := fridayEvening(t, cal)
	enrolled := now.AddDate(0, 0, -60)

	reportRepo := new(mockReportRepo)
	contractorRepo := new(mockContractorRepo)
	reportRepo.On("GetSubmittedUserIDs", mock.Anything, mock.Anything, mock.Anything).
		Return(map[string]struct{}{"U1": {}, "U2": {}}, nil)
	contractorRepo.On("ListActive", mock.Anything).Return([]*model.Contractor{
		contractorAt("U1", "Alice", enrolled),
		contractorAt("U2", "Bob", enrolled),
	}, nil)

	svc := NewEscalationService(reportRepo, contractorRepo, cal, config.EscalationConfig{})
	run, err := svc.ComputeRun(context.Background(), now)

	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, 2, run.RosterSize)
	assert.Equal(t, 2, run.SubmittedCount)
	assert.Empty(t, run.Missing)
}

func TestComputeRunTiers(t *testing.T) {
	cal := newTestCalendar(t)
	now := fridayEvening(t, cal)
	enrolled := now.AddDate(0, 0, -60)

	reportRepo := new(mockReportRepo)
	contractorRepo := new(mockContractorRepo)
	reportRepo.On("GetSubmittedUserIDs", mock.Anything, mock.Anything, mock.Anything).
		Return(map[string]struct{}{}, nil)
	contractorRepo.On("ListActive", mock.Anything).Return([]*model.Contractor{
		contractorAt("U1", "Alice", enrolled),
		contractorAt("U2", "Bob", enrolled),
		contractorAt("U3", "Carol", enrolled),
	}, nil)

	// Alice 昨天（周四 08-27）交过：只缺今天 1 天
	reportRepo.On("GetSubmissionDates", mock.Anything, "U1", mock.Anything).
		Return(map[string]struct{}{"2026-08-27": {}}, nil)
	// Bob 上次提交在周三 08-26：缺周四和周五共 2 天
	reportRepo.On("GetSubmissionDates", mock.Anything, "U2", mock.Anything).
		Return(map[string]struct{}{"2026-08-26": {}}, nil)
	// Carol 上次提交在上周五 08-21：周一到周五缺 5 天
	reportRepo.On("GetSubmissionDates", mock.Anything, "U3", mock.Anything).
		Return(map[string]struct{}{"2026-08-21": {}}, nil)

	svc := NewEscalationService(reportRepo, contractorRepo, cal, config.EscalationConfig{})
	run, err := svc.ComputeRun(context.Background(), now)

	require.NoError(t, err)
	require.Len(t, run.Missing, 3)
	assert.Equal(t, 3, run.RosterSize)
	assert.Equal(t, 0, run.SubmittedCount)

	assert.Equal(t, "Alice", run.Missing[0].Contractor.Name)
	assert.Equal(t, 1, run.Missing[0].MissedDays)
	assert.Equal(t, model.TierNormal, run.Missing[0].Tier)

	assert.Equal(t, "Bob", run.Missing[1].Contractor.Name)
	assert.Equal(t, 2, run.Missing[1].MissedDays)
	assert.Equal(t, model.TierWarning, run.Missing[1].Tier)

	assert.Equal(t, "Carol", run.Missing[2].Contractor.Name)
	assert.Equal(t, 5, run.Missing[2].MissedDays)
	assert.Equal(t, model.TierEscalated, run.Missing[2].Tier)
}

func TestComputeRunEnrolledTodayCountsOne(t *testing.T) {
	cal := newTestCalendar(t)
	now := fridayEvening(t, cal)

	reportRepo := new(mockReportRepo)
	contractorRepo := new(mockContractorRepo)
	reportRepo.On("GetSubmittedUserIDs", mock.Anything, mock.Anything, mock.Anything).
		Return(map[string]struct{}{}, nil)
	contractorRepo.On("ListActive", mock.Anything).Return([]*model.Contractor{
		contractorAt("U1", "Newbie", now),
	}, nil)
	reportRepo.On("GetSubmissionDates", mock.Anything, "U1", mock.Anything).
		Return(map[string]struct{}{}, nil)

	svc := NewEscalationService(reportRepo, contractorRepo, cal, config.EscalationConfig{})
	run, err := svc.ComputeRun(context.Background(), now)

	require.NoError(t, err)
	require.Len(t, run.Missing, 1)
	assert.Equal(t, 1, run.Missing[0].MissedDays)
	assert.Equal(t, model.TierNormal, run.Missing[0].Tier)
}

func TestComputeRunLookbackCap(t *testing.T) {
	cal := newTestCalendar(t)
	now := fridayEvening(t, cal)
	enrolled := now.AddDate(-1, 0, 0)

	reportRepo := new(mockReportRepo)
	contractorRepo := new(mockContractorRepo)
	reportRepo.On("GetSubmittedUserIDs", mock.Anything, mock.Anything, mock.Anything).
		Return(map[string]struct{}{}, nil)
	contractorRepo.On("ListActive", mock.Anything).Return([]*model.Contractor{
		contractorAt("U1", "Ghost", enrolled),
	}, nil)
	reportRepo.On("GetSubmissionDates", mock.Anything, "U1", mock.Anything).
		Return(map[string]struct{}{}, nil)

	svc := NewEscalationService(reportRepo, contractorRepo, cal, config.EscalationConfig{LookbackCap: 10})
	run, err := svc.ComputeRun(context.Background(), now)

	require.NoError(t, err)
	require.Len(t, run.Missing, 1)
	assert.Equal(t, 10, run.Missing[0].MissedDays)
	assert.Equal(t, model.TierEscalated, run.Missing[0].Tier)
}

func TestComputeRunExcludedUserSkipped(t *testing.T) {
	cal := newTestCalendar(t)
	now := fridayEvening(t, cal)
	enrolled := now.AddDate(0, 0, -60)

	reportRepo := new(mockReportRepo)
	contractorRepo := new(mockContractorRepo)
	reportRepo.On("GetSubmittedUserIDs", mock.Anything, mock.Anything, mock.Anything).
		Return(map[string]struct{}{}, nil)
	contractorRepo.On("ListActive", mock.Anything).Return([]*model.Contractor{
		contractorAt("U1", "Alice", enrolled),
		contractorAt("UBOSS", "Boss", enrolled),
	}, nil)
	reportRepo.On("GetSubmissionDates", mock.Anything, "U1", mock.Anything).
		Return(map[string]struct{}{"2026-08-27": {}}, nil)

	svc := NewEscalationService(reportRepo, contractorRepo, cal, config.EscalationConfig{
		ExcludedUsers: []string{"UBOSS"},
	})
	run, err := svc.ComputeRun(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 1, run.RosterSize)
	require.Len(t, run.Missing, 1)
	assert.Equal(t, "U1", run.Missing[0].Contractor.SlackID)
	reportRepo.AssertNotCalled(t, "GetSubmissionDates", mock.Anything, "UBOSS", mock.Anything)
}

func TestComputeRunPerUserFailureIsolated(t *testing.T) {
	cal := newTestCalendar(t)
	now := fridayEvening(t, cal)
	enrolled := now.AddDate(0, 0, -60)

	reportRepo := new(mockReportRepo)
	contractorRepo := new(mockContractorRepo)
	reportRepo.On("GetSubmittedUserIDs", mock.Anything, mock.Anything, mock.Anything).
		Return(map[string]struct{}{}, nil)
	contractorRepo.On("ListActive", mock.Anything).Return([]*model.Contractor{
		contractorAt("U1", "Alice", enrolled),
		contractorAt("U2", "Bob", enrolled),
	}, nil)
	reportRepo.On("GetSubmissionDates", mock.Anything, "U1", mock.Anything).
		Return(nil, errors.New("ledger exploded"))
	reportRepo.On("GetSubmissionDates", mock.Anything, "U2", mock.Anything).
		Return(map[string]struct{}{"2026-08-27": {}}, nil)

	svc := NewEscalationService(reportRepo, contractorRepo, cal, config.EscalationConfig{})
	run, err := svc.ComputeRun(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 2, run.RosterSize)
	require.Len(t, run.Missing, 1)
	assert.Equal(t, "U2", run.Missing[0].Contractor.SlackID)
}

func TestComputeRunLedgerErrorFailsRun(t *testing.T) {
	cal := newTestCalendar(t)
	now := fridayEvening(t, cal)

	reportRepo := new(mockReportRepo)
	contractorRepo := new(mockContractorRepo)
	reportRepo.On("GetSubmittedUserIDs", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("mongo down"))

	svc := NewEscalationService(reportRepo, contractorRepo, cal, config.EscalationConfig{})
	run, err := svc.ComputeRun(context.Background(), now)

	assert.ErrorIs(t, err, ErrLedgerUnavailable)
	assert.Nil(t, run)
}

func TestComputeRunQueriesExactDayWindow(t *testing.T) {
	cal := newTestCalendar(t)
	// 周五 2026-08-28 21:00 业务时区，以 UTC 表达以验证时区换算
	now := time.Date(2026, 8, 29, 1, 0, 0, 0, time.UTC)
	wantStart := time.Date(2026, 8, 28, 0, 0, 0, 0, cal.Location())
	wantEnd := time.Date(2026, 8, 29, 0, 0, 0, 0, cal.Location())
	enrolled := wantStart.AddDate(0, 0, -60)

	reportRepo := new(mockReportRepo)
	contractorRepo := new(mockContractorRepo)
	// 只对精确的 [当日 00:00, 次日 00:00) 窗口返回提交集合
	reportRepo.On("GetSubmittedUserIDs", mock.Anything,
		mock.MatchedBy(func(start time.Time) bool { return start.Equal(wantStart) }),
		mock.MatchedBy(func(end time.Time) bool { return end.Equal(wantEnd) }),
	).Return(map[string]struct{}{"U1": {}}, nil)
	contractorRepo.On("ListActive", mock.Anything).Return([]*model.Contractor{
		contractorAt("U1", "Alice", enrolled),
	}, nil)

	svc := NewEscalationService(reportRepo, contractorRepo, cal, config.EscalationConfig{})
	run, err := svc.ComputeRun(context.Background(), now)

	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, 1, run.SubmittedCount)
	assert.Empty(t, run.Missing)
	reportRepo.AssertNumberOfCalls(t, "GetSubmittedUserIDs", 1)
}

func TestMissStreakLookbackWindowCoversBusinessDays(t *testing.T) {
	cal := newTestCalendar(t)
	now := fridayEvening(t, cal)
	enrolled := now.AddDate(0, 0, -120)
	// 上次提交在 08-17（周一），距今 11 个日历天、9 个工作日
	lastSubmitted := time.Date(2026, 8, 17, 0, 0, 0, 0, cal.Location())

	reportRepo := new(mockReportRepo)
	contractorRepo := new(mockContractorRepo)
	reportRepo.On("GetSubmittedUserIDs", mock.Anything, mock.Anything, mock.Anything).
		Return(map[string]struct{}{}, nil)
	// 查询窗口必须覆盖到上次提交日，否则回溯会错过它直接撞上限
	reportRepo.On("GetSubmissionDates", mock.Anything, "U1",
		mock.MatchedBy(func(since time.Time) bool { return !since.After(lastSubmitted) }),
	).Return(map[string]struct{}{"2026-08-17": {}}, nil)
	contractorRepo.On("ListActive", mock.Anything).Return([]*model.Contractor{
		contractorAt("U1", "Alice", enrolled),
	}, nil)

	svc := NewEscalationService(reportRepo, contractorRepo, cal,
		config.EscalationConfig{LookbackCap: 10})
	run, err := svc.ComputeRun(context.Background(), now)

	require.NoError(t, err)
	require.Len(t, run.Missing, 1)
	assert.Equal(t, 9, run.Missing[0].MissedDays)
	assert.Equal(t, model.TierEscalated, run.Missing[0].Tier)
}

func TestComputeRunIdempotent(t *testing.T) {
	cal := newTestCalendar(t)
	now := fridayEvening(t, cal)
	enrolled := now.AddDate(0, 0, -60)

	reportRepo := new(mockReportRepo)
	contractorRepo := new(mockContractorRepo)
	reportRepo.On("GetSubmittedUserIDs", mock.Anything, mock.Anything, mock.Anything).
		Return(map[string]struct{}{"U2": {}}, nil)
	contractorRepo.On("ListActive", mock.Anything).Return([]*model.Contractor{
		contractorAt("U1", "Alice", enrolled),
		contractorAt("U2", "Bob", enrolled),
	}, nil)
	reportRepo.On("GetSubmissionDates", mock.Anything, "U1", mock.Anything).
		Return(map[string]struct{}{"2026-08-26": {}}, nil)

	svc := NewEscalationService(reportRepo, contractorRepo, cal, config.EscalationConfig{})

	first, err := svc.ComputeRun(context.Background(), now)
	require.NoError(t, err)
	second, err := svc.ComputeRun(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRollupMessageAllSubmitted(t *testing.T) {
	cal := newTestCalendar(t)
	svc := NewEscalationService(new(mockReportRepo), new(mockContractorRepo), cal, config.EscalationConfig{})

	run := &model.EscalationRun{
		Date:           time.Date(2026, 8, 28, 0, 0, 0, 0, cal.Location()),
		RosterSize:     3,
		SubmittedCount: 3,
	}
	msg := svc.RollupMessage(run)

	assert.Contains(t, msg, "Friday, Aug 28 2026")
	assert.Contains(t, msg, "All contractors submitted")
}

func TestRollupMessageMissing(t *testing.T) {
	cal := newTestCalendar(t)
	svc := NewEscalationService(new(mockReportRepo), new(mockContractorRepo), cal, config.EscalationConfig{})

	run := &model.EscalationRun{
		Date:           time.Date(2026, 8, 28, 0, 0, 0, 0, cal.Location()),
		RosterSize:     3,
		SubmittedCount: 1,
		Missing: []model.TierResult{
			{Contractor: &model.Contractor{Name: "Alice"}, Tier: model.TierNormal, MissedDays: 1},
			{Contractor: &model.Contractor{Name: "Bob"}, Tier: model.TierEscalated, MissedDays: 4},
		},
	}
	msg := svc.RollupMessage(run)

	assert.Contains(t, msg, "• Alice — Missed 1 consecutive working day\n")
	assert.Contains(t, msg, "• Bob — Missed 4 consecutive working days\n")
	assert.Contains(t, msg, "2 of 3 expected reports missing.")
}
