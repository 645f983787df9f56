package repository

import (
	"Daybook/internal/model"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TrackerRepo 提交跟踪表，所有写入都是按 (user_id, date) 的幂等 upsert，
// 同一 tick 重跑不会产生重复记录。
type TrackerRepo interface {
	EnsureForDate(ctx context.Context, slackID string, date string) error
	MarkSubmitted(ctx context.Context, slackID string, date string) error
	RecordReminder(ctx context.Context, slackID string, date string, at time.Time) error
	Get(ctx context.Context, slackID string, date string) (*model.SubmissionTracker, error)
	ListForDate(ctx context.Context, date string) ([]*model.SubmissionTracker, error)
}

type TrackerRepoImpl struct {
	col *mongo.Collection
}

func NewTrackerRepo(db *mongo.Database) TrackerRepo {
	return &TrackerRepoImpl{col: db.Collection("submission_trackers")}
}

func (s *TrackerRepoImpl) EnsureForDate(ctx context.Context, slackID string, date string) error {
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":            primitive.NewObjectID(),
			"user_id":        slackID,
			"date":           date,
			"submitted":      false,
			"reminder_count": 0,
			"created_at":     time.Now(),
		},
	}
	return s.upsert(ctx, slackID, date, update)
}

func (s *TrackerRepoImpl) MarkSubmitted(ctx context.Context, slackID string, date string) error {
	update := bson.M{
		"$set": bson.M{"submitted": true},
		"$setOnInsert": bson.M{
			"_id":            primitive.NewObjectID(),
			"user_id":        slackID,
			"date":           date,
			"reminder_count": 0,
			"created_at":     time.Now(),
		},
	}
	return s.upsert(ctx, slackID, date, update)
}

func (s *TrackerRepoImpl) RecordReminder(ctx context.Context, slackID string, date string, at time.Time) error {
	update := bson.M{
		"$inc": bson.M{"reminder_count": 1},
		"$set": bson.M{"last_reminder": at},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"user_id":    slackID,
			"date":       date,
			"submitted":  false,
			"created_at": time.Now(),
		},
	}
	return s.upsert(ctx, slackID, date, update)
}

func (s *TrackerRepoImpl) Get(ctx context.Context, slackID string, date string) (*model.SubmissionTracker, error) {
	var tracker model.SubmissionTracker
	err := s.col.FindOne(ctx, bson.M{"user_id": slackID, "date": date}).Decode(&tracker)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &tracker, nil
}

func (s *TrackerRepoImpl) ListForDate(ctx context.Context, date string) ([]*model.SubmissionTracker, error) {
	cursor, err := s.col.Find(ctx, bson.M{"date": date})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var trackers []*model.SubmissionTracker
	if err := cursor.All(ctx, &trackers); err != nil {
		return nil, err
	}
	return trackers, nil
}

func (s *TrackerRepoImpl) upsert(ctx context.Context, slackID string, date string, update bson.M) error {
	upsert := true
	_, err := s.col.UpdateOne(ctx,
		bson.M{"user_id": slackID, "date": date},
		update,
		&options.UpdateOptions{Upsert: &upsert},
	)
	return err
}
