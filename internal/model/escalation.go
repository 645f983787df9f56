package model

import "time"

// NotificationTier 催报等级，完全由连续缺报天数决定
type NotificationTier int

const (
	TierNone      NotificationTier = iota // 已提交
	TierNormal                            // 缺报 1 天
	TierWarning                           // 缺报 2 天
	TierEscalated                         // 缺报 ≥3 天
)

func (t NotificationTier) String() string {
	switch t {
	case TierNormal:
		return "normal"
	case TierWarning:
		return "warning"
	case TierEscalated:
		return "escalated"
	default:
		return "none"
	}
}

// TierForStreak 缺报天数映射到催报等级
func TierForStreak(days int) NotificationTier {
	switch {
	case days <= 0:
		return TierNone
	case days == 1:
		return TierNormal
	case days == 2:
		return TierWarning
	default:
		return TierEscalated
	}
}

// MissState 按需重算的派生状态，不落库
type MissState struct {
	ConsecutiveMissedDays int
	MissingToday          bool
}

// TierResult 单个用户的本轮计算结果
type TierResult struct {
	Contractor *Contractor      `json:"contractor"`
	Tier       NotificationTier `json:"tier"`
	MissedDays int              `json:"missedDays"`
}

// EscalationRun 一次完整计算的快照输出，按姓名排序，可幂等重算
type EscalationRun struct {
	Date           time.Time    `json:"date"`           // 业务日（业务时区零点）
	RosterSize     int          `json:"rosterSize"`     // 应交人数
	SubmittedCount int          `json:"submittedCount"` // 已交人数
	Missing        []TierResult `json:"missing"`        // 仅含 Tier != none 的用户
}
