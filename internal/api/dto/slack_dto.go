package dto

// SlackEventEnvelope Slack Events API 外层信封
type SlackEventEnvelope struct {
	Type      string     `json:"type"`
	Challenge string     `json:"challenge"`
	TeamID    string     `json:"team_id"`
	Event     SlackEvent `json:"event"`
}

// SlackEvent 事件主体，只保留 DM 处理需要的字段
type SlackEvent struct {
	Type        string `json:"type"`
	SubType     string `json:"subtype"`
	ChannelType string `json:"channel_type"`
	Channel     string `json:"channel"`
	User        string `json:"user"`
	BotID       string `json:"bot_id"`
	Text        string `json:"text"`
}

// SlackInteractivePayload interactive 回调的 payload 字段
type SlackInteractivePayload struct {
	Type      string `json:"type"`
	TriggerID string `json:"trigger_id"`
	User      struct {
		ID string `json:"id"`
	} `json:"user"`
	View    SlackView `json:"view"`
	Actions []struct {
		ActionID string `json:"action_id"`
	} `json:"actions"`
}

// SlackView 模态框视图，State.Values 按 block_id / action_id 两级索引
type SlackView struct {
	CallbackID      string `json:"callback_id"`
	PrivateMetadata string `json:"private_metadata"`
	State           struct {
		Values map[string]map[string]struct {
			Value string `json:"value"`
		} `json:"values"`
	} `json:"state"`
}

// SlackCommandDTO slash command 表单字段
type SlackCommandDTO struct {
	Command   string `form:"command"`
	Text      string `form:"text"`
	UserID    string `form:"user_id"`
	ChannelID string `form:"channel_id"`
	TriggerID string `form:"trigger_id"`
}
