package service

import (
	"Daybook/internal/api/config"
	"Daybook/internal/model"
	"Daybook/internal/pkg/consts"
	redisutil "Daybook/internal/pkg/redis"
	"Daybook/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"
)

// 催报阶段标识，幂等标记按 (用户, 日期, 阶段) 记录
const (
	StageReminder     = "reminder"
	StageFinalWarning = "final"
)

// MessageSender 调度链路需要的最小发送能力，slack.Client 实现之
type MessageSender interface {
	SendMessage(ctx context.Context, target string, text string) error
	SendBlocks(ctx context.Context, target string, text string, blocks []map[string]any) error
}

// MarkerStore 提醒幂等标记存储，生产环境由 Redis 承担
type MarkerStore interface {
	SetNXWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
}

// RedisMarkerStore 基于全局 Redis 客户端的 MarkerStore 实现
type RedisMarkerStore struct{}

func (RedisMarkerStore) SetNXWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return redisutil.SetNXWithExpiration(ctx, key, value, expiration)
}

// NotifyService 把催报快照扇出为用户私信与管理频道通知。
// 任何单条发送失败只记日志，不阻断其余发送。
type NotifyService interface {
	Dispatch(ctx context.Context, run *model.EscalationRun, stage string)
	SendRollup(ctx context.Context, text string) error
}

type NotifyServiceImpl struct {
	sender            MessageSender
	trackerRepo       repository.TrackerRepo
	markers           MarkerStore
	managementChannel string
	maxReminders      int
}

func NewNotifyService(sender MessageSender, trackerRepo repository.TrackerRepo, markers MarkerStore, cfg config.SlackConfig, esc config.EscalationConfig) NotifyService {
	maxReminders := esc.MaxReminders
	if maxReminders <= 0 {
		maxReminders = consts.DefaultMaxReminders
	}

	return &NotifyServiceImpl{
		sender:            sender,
		trackerRepo:       trackerRepo,
		markers:           markers,
		managementChannel: cfg.ManagementChannel,
		maxReminders:      maxReminders,
	}
}

func (s *NotifyServiceImpl) Dispatch(ctx context.Context, run *model.EscalationRun, stage string) {
	if run == nil {
		return
	}
	date := run.Date.Format(consts.DateLayout)

	for _, r := range run.Missing {
		if r.Tier == model.TierNone {
			continue
		}
		s.dispatchOne(ctx, r, date, stage)
	}
}

func (s *NotifyServiceImpl) dispatchOne(ctx context.Context, r model.TierResult, date string, stage string) {
	userID := r.Contractor.SlackID

	// 同一 tick 重跑不重复打扰：SetNX 标记失败（已存在）则跳过。
	// Redis 故障时放行发送，宁可多提醒一次也不静默丢失。
	if s.claimMarker(ctx, consts.ReminderSentKey+userID+":"+date+":"+stage) == markerTaken {
		return
	}

	if tracker, err := s.trackerRepo.Get(ctx, userID, date); err == nil &&
		tracker != nil && tracker.ReminderCount >= s.maxReminders {
		log.InfoContext(ctx, "reminder cap reached, skipping", "user", userID, "date", date)
		return
	}

	if err := s.sender.SendMessage(ctx, userID, reminderText(r)); err != nil {
		log.ErrorContext(ctx, "reminder send failed", "user", userID, "tier", r.Tier.String(), "err", err)
		return
	}

	if err := s.trackerRepo.RecordReminder(ctx, userID, date, time.Now()); err != nil {
		log.ErrorContext(ctx, "record reminder failed", "user", userID, "err", err)
	}

	// escalated 档在日终汇总之外，实时单独抄送管理频道一行
	if r.Tier == model.TierEscalated {
		if s.claimMarker(ctx, consts.ReminderSentKey+userID+":"+date+":mgmt") == markerTaken {
			return
		}
		flag := fmt.Sprintf("⚠️ %s has missed %d consecutive working days without an EOD report.",
			r.Contractor.Name, r.MissedDays)
		if err := s.sender.SendMessage(ctx, s.managementChannel, flag); err != nil {
			log.ErrorContext(ctx, "management flag send failed", "user", userID, "err", err)
		}
	}
}

func (s *NotifyServiceImpl) SendRollup(ctx context.Context, text string) error {
	return s.sender.SendMessage(ctx, s.managementChannel, text)
}

type markerState int

const (
	markerClaimed markerState = iota
	markerTaken
)

func (s *NotifyServiceImpl) claimMarker(ctx context.Context, key string) markerState {
	ok, err := s.markers.SetNXWithExpiration(ctx, key, 1, 48*time.Hour)
	if err != nil {
		log.WarnContext(ctx, "reminder marker unavailable, sending anyway", "key", key, "err", err)
		return markerClaimed
	}
	if !ok {
		return markerTaken
	}
	return markerClaimed
}

func reminderText(r model.TierResult) string {
	switch r.Tier {
	case model.TierWarning:
		return fmt.Sprintf("⚠️ You have not submitted your EOD report for %d working days in a row. Please submit it with `/eod` as soon as possible.", r.MissedDays)
	case model.TierEscalated:
		return fmt.Sprintf("🚨 Urgent: you have missed %d consecutive working days of EOD reports. This has been flagged to management. Please submit with `/eod` now.", r.MissedDays)
	default:
		return "👋 Friendly reminder: your EOD report for today is still missing. Submit it with `/eod` when you get a moment."
	}
}
