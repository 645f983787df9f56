package dto

import "time"

// ReportFields 报告正文字段，模态框提交与自由文本提交共用
type ReportFields struct {
	ShortTermProjects string `json:"short_term_projects" validate:"required"`
	LongTermProjects  string `json:"long_term_projects" validate:"required"`
	Blockers          string `json:"blockers"`
	NextDayGoals      string `json:"next_day_goals" validate:"required"`
	ToolsUsed         string `json:"tools_used"`
	HelpNeeded        string `json:"help_needed"`
	ClientFeedback    string `json:"client_feedback"`
}

// ReportItem 面板展示用的报告条目
type ReportItem struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Date              string    `json:"date"`
	SubmittedAt       time.Time `json:"submitted_at"`
	ShortTermProjects string    `json:"short_term_projects"`
	LongTermProjects  string    `json:"long_term_projects"`
	Blockers          string    `json:"blockers"`
	NextDayGoals      string    `json:"next_day_goals"`
	ToolsUsed         string    `json:"tools_used"`
	HelpNeeded        string    `json:"help_needed"`
	ClientFeedback    string    `json:"client_feedback"`
}
