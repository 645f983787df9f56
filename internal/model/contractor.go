package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contractor 外包人员档案，软删除（仅翻转 active 标志，不物理删除）
type Contractor struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SlackID    string             `bson:"slack_id" json:"slackId"`        // Slack 平台用户 ID
	Name       string             `bson:"name" json:"name"`               // 展示名
	Email      string             `bson:"email,omitempty" json:"email"`   // 联系邮箱
	Active     bool               `bson:"active" json:"active"`           // 在职标志
	EnrolledAt time.Time          `bson:"enrolled_at" json:"enrolledAt"`  // 入职日期，此前的缺报不计入
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

// EnrollmentDate 入职日期按业务时区截断到当天零点
func (c *Contractor) EnrollmentDate(loc *time.Location) time.Time {
	t := c.EnrolledAt.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
