package service

import (
	"Daybook/internal/api/config"
	"Daybook/internal/model"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func report(user, date string, submittedAt time.Time, shortTerm string) *model.EODReport {
	return &model.EODReport{
		UserID:            user,
		Date:              date,
		SubmittedAt:       submittedAt,
		ShortTermProjects: shortTerm,
	}
}

func TestFormatReportsForPrompt(t *testing.T) {
	base := time.Date(2026, 8, 26, 17, 30, 0, 0, time.UTC)
	reports := []*model.EODReport{
		report("U2", "2026-08-27", base.AddDate(0, 0, 1), "API refactor"),
		report("U1", "2026-08-26", base, "Landing page"),
	}
	names := map[string]string{"U1": "Alice"}

	text := FormatReportsForPrompt(reports, names)

	// 按提交时间升序，名字缺失时回退到原始 ID
	first := strings.Index(text, "Contractor: Alice")
	second := strings.Index(text, "Contractor: U2")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)

	assert.Contains(t, text, "Date: 2026-08-26")
	assert.Contains(t, text, "Short-term Projects: Landing page")
	assert.Contains(t, text, "Blockers: None")
	assert.Contains(t, text, "\n---\n")
}

func TestGenerateWeeklyNoReports(t *testing.T) {
	cal := newTestCalendar(t)
	reportRepo := new(mockReportRepo)
	contractorRepo := new(mockContractorRepo)
	reportRepo.On("ListReportsSince", mock.Anything, mock.Anything).
		Return([]*model.EODReport{}, nil)

	called := false
	svc := NewSummaryService(reportRepo, contractorRepo,
		func(ctx context.Context, reportText string) (string, error) {
			called = true
			return "should not happen", nil
		},
		new(mockSender), cal, config.SlackConfig{ManagementChannel: "C_MGMT"})

	summary, err := svc.GenerateWeekly(context.Background(), fridayEvening(t, cal))

	require.NoError(t, err)
	assert.Empty(t, summary)
	assert.False(t, called)
}

func TestPostWeekly(t *testing.T) {
	cal := newTestCalendar(t)
	now := fridayEvening(t, cal)

	reportRepo := new(mockReportRepo)
	contractorRepo := new(mockContractorRepo)
	sender := new(mockSender)

	reportRepo.On("ListReportsSince", mock.Anything, mock.Anything).
		Return([]*model.EODReport{
			report("U1", "2026-08-26", now.AddDate(0, 0, -2), "Landing page"),
		}, nil)
	contractorRepo.On("ListActive", mock.Anything).
		Return([]*model.Contractor{{SlackID: "U1", Name: "Alice"}}, nil)
	sender.On("SendMessage", mock.Anything, "C_MGMT", mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "Weekly EOD Summary") && strings.Contains(text, "the team shipped things")
	})).Return(nil)

	svc := NewSummaryService(reportRepo, contractorRepo,
		func(ctx context.Context, reportText string) (string, error) {
			assert.Contains(t, reportText, "Contractor: Alice")
			return "the team shipped things", nil
		},
		sender, cal, config.SlackConfig{ManagementChannel: "C_MGMT"})

	err := svc.PostWeekly(context.Background(), now)

	require.NoError(t, err)
	sender.AssertNumberOfCalls(t, "SendMessage", 1)
}
