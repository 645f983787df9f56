package service

import (
	"Daybook/internal/model"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type mockReportRepo struct {
	mock.Mock
}

func (m *mockReportRepo) GetSubmittedUserIDs(ctx context.Context, start, end time.Time) (map[string]struct{}, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *mockReportRepo) GetSubmissionDates(ctx context.Context, slackID string, since time.Time) (map[string]struct{}, error) {
	args := m.Called(ctx, slackID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *mockReportRepo) InsertReport(ctx context.Context, report *model.EODReport) (string, error) {
	args := m.Called(ctx, report)
	return args.String(0), args.Error(1)
}

func (m *mockReportRepo) UpdateReport(ctx context.Context, id string, report *model.EODReport) error {
	args := m.Called(ctx, id, report)
	return args.Error(0)
}

func (m *mockReportRepo) GetReportByID(ctx context.Context, id string) (*model.EODReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EODReport), args.Error(1)
}

func (m *mockReportRepo) GetReportForDate(ctx context.Context, slackID string, date string) (*model.EODReport, error) {
	args := m.Called(ctx, slackID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EODReport), args.Error(1)
}

func (m *mockReportRepo) ListReportsSince(ctx context.Context, since time.Time) ([]*model.EODReport, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.EODReport), args.Error(1)
}

func (m *mockReportRepo) ListUserReportsSince(ctx context.Context, slackID string, since time.Time) ([]*model.EODReport, error) {
	args := m.Called(ctx, slackID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.EODReport), args.Error(1)
}

type mockContractorRepo struct {
	mock.Mock
}

func (m *mockContractorRepo) ListActive(ctx context.Context) ([]*model.Contractor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Contractor), args.Error(1)
}

func (m *mockContractorRepo) GetBySlackID(ctx context.Context, slackID string) (*model.Contractor, error) {
	args := m.Called(ctx, slackID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contractor), args.Error(1)
}

func (m *mockContractorRepo) Upsert(ctx context.Context, contractor *model.Contractor) error {
	args := m.Called(ctx, contractor)
	return args.Error(0)
}

func (m *mockContractorRepo) SetActive(ctx context.Context, slackID string, active bool) error {
	args := m.Called(ctx, slackID, active)
	return args.Error(0)
}

type mockTrackerRepo struct {
	mock.Mock
}

func (m *mockTrackerRepo) EnsureForDate(ctx context.Context, slackID string, date string) error {
	args := m.Called(ctx, slackID, date)
	return args.Error(0)
}

func (m *mockTrackerRepo) MarkSubmitted(ctx context.Context, slackID string, date string) error {
	args := m.Called(ctx, slackID, date)
	return args.Error(0)
}

func (m *mockTrackerRepo) RecordReminder(ctx context.Context, slackID string, date string, at time.Time) error {
	args := m.Called(ctx, slackID, date, at)
	return args.Error(0)
}

func (m *mockTrackerRepo) Get(ctx context.Context, slackID string, date string) (*model.SubmissionTracker, error) {
	args := m.Called(ctx, slackID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubmissionTracker), args.Error(1)
}

func (m *mockTrackerRepo) ListForDate(ctx context.Context, date string) ([]*model.SubmissionTracker, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SubmissionTracker), args.Error(1)
}

type mockEscalationService struct {
	mock.Mock
}

func (m *mockEscalationService) ComputeRun(ctx context.Context, now time.Time) (*model.EscalationRun, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EscalationRun), args.Error(1)
}

func (m *mockEscalationService) MissStreak(ctx context.Context, contractor *model.Contractor, asOf time.Time) (model.MissState, error) {
	args := m.Called(ctx, contractor, asOf)
	return args.Get(0).(model.MissState), args.Error(1)
}

func (m *mockEscalationService) RollupMessage(run *model.EscalationRun) string {
	args := m.Called(run)
	return args.String(0)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendMessage(ctx context.Context, target string, text string) error {
	args := m.Called(ctx, target, text)
	return args.Error(0)
}

func (m *mockSender) SendBlocks(ctx context.Context, target string, text string, blocks []map[string]any) error {
	args := m.Called(ctx, target, text, blocks)
	return args.Error(0)
}

type mockMarkerStore struct {
	mock.Mock
}

func (m *mockMarkerStore) SetNXWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, expiration)
	return args.Bool(0), args.Error(1)
}
