package consts

const (
	// ReminderSentKey + slackID + ":" + date + ":" + stage，提醒幂等标记
	ReminderSentKey = "reminder:sent:"
	// SlackUserInfoKey + slackID，Slack 用户元数据缓存
	SlackUserInfoKey = "slack:user:info:"
	// WeeklySummaryDoneKey + 当次运行的业务日期，防止周报重复生成
	WeeklySummaryDoneKey = "weekly:summary:done:"
	// SheetsSyncCursorKey 上次导出到表格的时间戳
	SheetsSyncCursorKey = "sheets:sync:cursor"
)
