package slack

import (
	"Daybook/internal/model"
	"fmt"
)

func section(text string) map[string]any {
	return map[string]any{
		"type": "section",
		"text": map[string]any{"type": "mrkdwn", "text": text},
	}
}

// EODPromptBlocks 下班提示消息，引导用户用 /eod 打开表单
func EODPromptBlocks() []map[string]any {
	return []map[string]any{
		section("🌟 Time for your End of Day Report! Use `/eod` to open the report form."),
		section("*Short-term Project Work:*\n• What did you work on today?\n• Progress made?"),
		section("*Long-term Project Work:*\n• Any progress on long-term initiatives?"),
		section("*Additional Information:*\n• Blockers?\n• Tomorrow's goals?\n• Tools used?\n• Help needed?\n• Client feedback?"),
	}
}

// ReportBlocks 报告发到汇报频道的展示格式
func ReportBlocks(name string, report *model.EODReport) []map[string]any {
	return []map[string]any{
		{
			"type": "header",
			"text": map[string]any{"type": "plain_text", "text": fmt.Sprintf("EOD Report - %s", name)},
		},
		section(fmt.Sprintf("*Short-term Projects*\n%s", orNone(report.ShortTermProjects))),
		section(fmt.Sprintf("*Long-term Projects*\n%s", orNone(report.LongTermProjects))),
		section(fmt.Sprintf("*Blockers*\n%s", orNone(report.Blockers))),
		section(fmt.Sprintf("*Tomorrow's Goals*\n%s", orNone(report.NextDayGoals))),
		section(fmt.Sprintf("*Tools Used*\n%s", orNone(report.ToolsUsed))),
		section(fmt.Sprintf("*Help Needed*\n%s", orNone(report.HelpNeeded))),
		section(fmt.Sprintf("*Client Feedback*\n%s", orNone(report.ClientFeedback))),
	}
}

// AlreadySubmittedBlocks 当天已有报告时的提示，附查看/编辑按钮
func AlreadySubmittedBlocks(date string) []map[string]any {
	return []map[string]any{
		section(fmt.Sprintf("You have already submitted your EOD report for %s.", date)),
		{
			"type": "actions",
			"elements": []map[string]any{
				{
					"type":      "button",
					"action_id": "view_report",
					"text":      map[string]any{"type": "plain_text", "text": "View Report"},
				},
				{
					"type":      "button",
					"action_id": "edit_report",
					"text":      map[string]any{"type": "plain_text", "text": "Edit Report"},
					"style":     "primary",
				},
			},
		},
	}
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
