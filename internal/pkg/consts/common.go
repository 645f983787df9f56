package consts

import "time"

const (
	// DateLayout 业务日期的存储格式
	DateLayout = time.DateOnly

	// DefaultLookbackCap 连续缺报回溯上限（工作日）
	DefaultLookbackCap = 30

	// DefaultMaxReminders 单日最多催报次数
	DefaultMaxReminders = 2

	// SlackCallTimeout 单次 Slack API 调用超时
	SlackCallTimeout = 10 * time.Second
)
