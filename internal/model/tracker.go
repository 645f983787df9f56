package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmissionTracker 每 (用户, 日期) 一条的提交跟踪记录，(user_id, date) 唯一索引保证幂等
type SubmissionTracker struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"user_id" json:"userId"`
	Date          string             `bson:"date" json:"date"` // 业务日期 YYYY-MM-DD
	Submitted     bool               `bson:"submitted" json:"submitted"`
	ReminderCount int                `bson:"reminder_count" json:"reminderCount"`
	LastReminder  *time.Time         `bson:"last_reminder,omitempty" json:"lastReminder,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}
