package slack

import "Daybook/internal/model"

// EODModalCallbackID 模态框提交回调标识
const EODModalCallbackID = "eod_report_modal"

// 模态框 block / action 标识，与 interactive 回调解析端保持一致
const (
	BlockShortTerm      = "short_term_block"
	BlockLongTerm       = "long_term_block"
	BlockBlockers       = "blockers_block"
	BlockGoals          = "goals_block"
	BlockTools          = "tools_block"
	BlockHelp           = "help_block"
	BlockClientFeedback = "client_feedback_block"
)

func inputBlock(blockID, actionID, label string, optional bool, initial string) map[string]any {
	element := map[string]any{
		"type":      "plain_text_input",
		"action_id": actionID,
		"multiline": true,
	}
	if initial != "" {
		element["initial_value"] = initial
	}
	return map[string]any{
		"type":     "input",
		"block_id": blockID,
		"optional": optional,
		"label":    map[string]any{"type": "plain_text", "text": label},
		"element":  element,
	}
}

// EODModalView 构建报告模态框；existing 非空时为编辑模式，预填原值
func EODModalView(privateMetadata string, existing *model.EODReport) map[string]any {
	var r model.EODReport
	if existing != nil {
		r = *existing
	}

	title := "EOD Report"
	if existing != nil {
		title = "Edit EOD Report"
	}

	return map[string]any{
		"type":             "modal",
		"callback_id":      EODModalCallbackID,
		"private_metadata": privateMetadata,
		"title":            map[string]any{"type": "plain_text", "text": title},
		"submit":           map[string]any{"type": "plain_text", "text": "Submit"},
		"close":            map[string]any{"type": "plain_text", "text": "Cancel"},
		"blocks": []map[string]any{
			inputBlock(BlockShortTerm, "short_term_input", "Short-term Projects", false, r.ShortTermProjects),
			inputBlock(BlockLongTerm, "long_term_input", "Long-term Projects", false, r.LongTermProjects),
			inputBlock(BlockBlockers, "blockers_input", "Blockers", true, r.Blockers),
			inputBlock(BlockGoals, "goals_input", "Tomorrow's Goals", false, r.NextDayGoals),
			inputBlock(BlockTools, "tools_input", "Tools Used", true, r.ToolsUsed),
			inputBlock(BlockHelp, "help_input", "Help Needed", true, r.HelpNeeded),
			inputBlock(BlockClientFeedback, "client_feedback_input", "Client Feedback", true, r.ClientFeedback),
		},
	}
}
