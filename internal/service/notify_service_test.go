package service

import (
	"Daybook/internal/api/config"
	"Daybook/internal/model"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testRun(missing ...model.TierResult) *model.EscalationRun {
	return &model.EscalationRun{
		Date:       time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		RosterSize: len(missing),
		Missing:    missing,
	}
}

func tierResult(id, name string, tier model.NotificationTier, days int) model.TierResult {
	return model.TierResult{
		Contractor: &model.Contractor{SlackID: id, Name: name},
		Tier:       tier,
		MissedDays: days,
	}
}

func newTestNotify(sender *mockSender, trackerRepo *mockTrackerRepo, markers *mockMarkerStore) NotifyService {
	return NewNotifyService(sender, trackerRepo, markers,
		config.SlackConfig{ManagementChannel: "C_MGMT"},
		config.EscalationConfig{MaxReminders: 2},
	)
}

func TestDispatchSendsReminderPerTier(t *testing.T) {
	sender := new(mockSender)
	trackerRepo := new(mockTrackerRepo)
	markers := new(mockMarkerStore)

	markers.On("SetNXWithExpiration", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(true, nil)
	trackerRepo.On("Get", mock.Anything, mock.Anything, "2026-08-28").Return(nil, nil)
	trackerRepo.On("RecordReminder", mock.Anything, mock.Anything, "2026-08-28", mock.Anything).Return(nil)

	sender.On("SendMessage", mock.Anything, "U1", mock.MatchedBy(func(text string) bool {
		return strings.HasPrefix(text, "👋")
	})).Return(nil)
	sender.On("SendMessage", mock.Anything, "U2", mock.Anything).Return(nil)
	sender.On("SendMessage", mock.Anything, "U3", mock.Anything).Return(nil)
	sender.On("SendMessage", mock.Anything, "C_MGMT", mock.Anything).Return(nil)

	svc := newTestNotify(sender, trackerRepo, markers)
	run := testRun(
		tierResult("U1", "Alice", model.TierNormal, 1),
		tierResult("U2", "Bob", model.TierWarning, 2),
		tierResult("U3", "Carol", model.TierEscalated, 4),
	)
	svc.Dispatch(context.Background(), run, StageReminder)

	sender.AssertNumberOfCalls(t, "SendMessage", 4)
	// 只有 escalated 档抄送管理频道
	sender.AssertCalled(t, "SendMessage", mock.Anything, "C_MGMT",
		"⚠️ Carol has missed 4 consecutive working days without an EOD report.")
	trackerRepo.AssertNumberOfCalls(t, "RecordReminder", 3)
}

func TestDispatchMarkerAlreadyTaken(t *testing.T) {
	sender := new(mockSender)
	trackerRepo := new(mockTrackerRepo)
	markers := new(mockMarkerStore)

	markers.On("SetNXWithExpiration", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(false, nil)

	svc := newTestNotify(sender, trackerRepo, markers)
	svc.Dispatch(context.Background(), testRun(tierResult("U1", "Alice", model.TierNormal, 1)), StageReminder)

	sender.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
	trackerRepo.AssertNotCalled(t, "RecordReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchMarkerStoreDownStillSends(t *testing.T) {
	sender := new(mockSender)
	trackerRepo := new(mockTrackerRepo)
	markers := new(mockMarkerStore)

	markers.On("SetNXWithExpiration", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(false, errors.New("redis down"))
	trackerRepo.On("Get", mock.Anything, "U1", "2026-08-28").Return(nil, nil)
	trackerRepo.On("RecordReminder", mock.Anything, "U1", "2026-08-28", mock.Anything).Return(nil)
	sender.On("SendMessage", mock.Anything, "U1", mock.Anything).Return(nil)

	svc := newTestNotify(sender, trackerRepo, markers)
	svc.Dispatch(context.Background(), testRun(tierResult("U1", "Alice", model.TierNormal, 1)), StageReminder)

	sender.AssertCalled(t, "SendMessage", mock.Anything, "U1", mock.Anything)
}

func TestDispatchReminderCapReached(t *testing.T) {
	sender := new(mockSender)
	trackerRepo := new(mockTrackerRepo)
	markers := new(mockMarkerStore)

	markers.On("SetNXWithExpiration", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(true, nil)
	trackerRepo.On("Get", mock.Anything, "U1", "2026-08-28").Return(&model.SubmissionTracker{
		UserID:        "U1",
		Date:          "2026-08-28",
		ReminderCount: 2,
	}, nil)

	svc := newTestNotify(sender, trackerRepo, markers)
	svc.Dispatch(context.Background(), testRun(tierResult("U1", "Alice", model.TierWarning, 2)), StageReminder)

	sender.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchSendFailureIsolated(t *testing.T) {
	sender := new(mockSender)
	trackerRepo := new(mockTrackerRepo)
	markers := new(mockMarkerStore)

	markers.On("SetNXWithExpiration", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(true, nil)
	trackerRepo.On("Get", mock.Anything, mock.Anything, "2026-08-28").Return(nil, nil)
	trackerRepo.On("RecordReminder", mock.Anything, "U2", "2026-08-28", mock.Anything).Return(nil)

	sender.On("SendMessage", mock.Anything, "U1", mock.Anything).Return(errors.New("slack 500"))
	sender.On("SendMessage", mock.Anything, "U2", mock.Anything).Return(nil)

	svc := newTestNotify(sender, trackerRepo, markers)
	run := testRun(
		tierResult("U1", "Alice", model.TierNormal, 1),
		tierResult("U2", "Bob", model.TierNormal, 1),
	)
	svc.Dispatch(context.Background(), run, StageReminder)

	// U1 发送失败不记提醒数，也不影响 U2
	trackerRepo.AssertNotCalled(t, "RecordReminder", mock.Anything, "U1", mock.Anything, mock.Anything)
	sender.AssertCalled(t, "SendMessage", mock.Anything, "U2", mock.Anything)
	trackerRepo.AssertCalled(t, "RecordReminder", mock.Anything, "U2", "2026-08-28", mock.Anything)
}

func TestDispatchStagesUseSeparateMarkers(t *testing.T) {
	sender := new(mockSender)
	trackerRepo := new(mockTrackerRepo)
	markers := new(mockMarkerStore)

	seen := make(map[string]struct{})
	markers.On("SetNXWithExpiration", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(true, nil).
		Run(func(args mock.Arguments) {
			seen[args.String(1)] = struct{}{}
		})
	trackerRepo.On("Get", mock.Anything, "U1", "2026-08-28").Return(nil, nil)
	trackerRepo.On("RecordReminder", mock.Anything, "U1", "2026-08-28", mock.Anything).Return(nil)
	sender.On("SendMessage", mock.Anything, "U1", mock.Anything).Return(nil)

	svc := newTestNotify(sender, trackerRepo, markers)
	run := testRun(tierResult("U1", "Alice", model.TierNormal, 1))
	svc.Dispatch(context.Background(), run, StageReminder)
	svc.Dispatch(context.Background(), run, StageFinalWarning)

	_, hasReminder := seen["reminder:sent:U1:2026-08-28:reminder"]
	_, hasFinal := seen["reminder:sent:U1:2026-08-28:final"]
	assert.True(t, hasReminder)
	assert.True(t, hasFinal)
}

func TestSendRollupTargetsManagementChannel(t *testing.T) {
	sender := new(mockSender)
	sender.On("SendMessage", mock.Anything, "C_MGMT", "rollup text").Return(nil)

	svc := newTestNotify(sender, new(mockTrackerRepo), new(mockMarkerStore))
	err := svc.SendRollup(context.Background(), "rollup text")

	assert.NoError(t, err)
	sender.AssertCalled(t, "SendMessage", mock.Anything, "C_MGMT", "rollup text")
}
