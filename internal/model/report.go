package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EODReport 每日工作报告。date 字段是 submitted_at 换算业务时区后的冗余缓存，
// 真实归属日期始终以 submitted_at 为准。
type EODReport struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"user_id" json:"userId"`           // 提交人 Slack ID
	Date        string             `bson:"date" json:"date"`                // 业务日期 YYYY-MM-DD（冗余）
	SubmittedAt time.Time          `bson:"submitted_at" json:"submittedAt"` // 提交时刻
	UpdatedAt   time.Time          `bson:"updated_at,omitempty" json:"updatedAt"`

	// 报告正文，与 Slack 模态框字段一一对应
	ShortTermProjects string `bson:"short_term_projects" json:"shortTermProjects"`
	LongTermProjects  string `bson:"long_term_projects" json:"longTermProjects"`
	Blockers          string `bson:"blockers" json:"blockers"`
	NextDayGoals      string `bson:"next_day_goals" json:"nextDayGoals"`
	ToolsUsed         string `bson:"tools_used" json:"toolsUsed"`
	HelpNeeded        string `bson:"help_needed" json:"helpNeeded"`
	ClientFeedback    string `bson:"client_feedback" json:"clientFeedback"`
}
