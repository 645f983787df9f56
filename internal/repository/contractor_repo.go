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

type ContractorRepo interface {
	ListActive(ctx context.Context) ([]*model.Contractor, error)
	GetBySlackID(ctx context.Context, slackID string) (*model.Contractor, error)
	// Upsert 按 slack_id 建档或更新档案，首次建档时写入 enrolled_at
	Upsert(ctx context.Context, contractor *model.Contractor) error
	SetActive(ctx context.Context, slackID string, active bool) error
}

type ContractorRepoImpl struct {
	col *mongo.Collection
}

func NewContractorRepo(db *mongo.Database) ContractorRepo {
	return &ContractorRepoImpl{col: db.Collection("contractors")}
}

func (s *ContractorRepoImpl) ListActive(ctx context.Context) ([]*model.Contractor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := s.col.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var contractors []*model.Contractor
	if err := cursor.All(ctx, &contractors); err != nil {
		return nil, err
	}
	return contractors, nil
}

func (s *ContractorRepoImpl) GetBySlackID(ctx context.Context, slackID string) (*model.Contractor, error) {
	var contractor model.Contractor
	err := s.col.FindOne(ctx, bson.M{"slack_id": slackID}).Decode(&contractor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &contractor, nil
}

func (s *ContractorRepoImpl) Upsert(ctx context.Context, contractor *model.Contractor) error {
	now := time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":       contractor.Name,
			"email":      contractor.Email,
			"active":     contractor.Active,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":         primitive.NewObjectID(),
			"slack_id":    contractor.SlackID,
			"enrolled_at": contractor.EnrolledAt,
			"created_at":  now,
		},
	}

	upsert := true
	_, err := s.col.UpdateOne(ctx,
		bson.M{"slack_id": contractor.SlackID},
		update,
		&options.UpdateOptions{Upsert: &upsert},
	)
	return err
}

func (s *ContractorRepoImpl) SetActive(ctx context.Context, slackID string, active bool) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"slack_id": slackID},
		bson.M{"$set": bson.M{"active": active, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
