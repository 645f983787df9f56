package mongo

import (
	"Daybook/internal/api/config"
	"Daybook/internal/pkg/logger"
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitMongo 建立连接并返回 Database 引用，同时确保索引存在
func InitMongo(cfg config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 建立连接
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URL).
		SetMonitor(logger.NewMongoMonitor()),
	)
	if err != nil {
		return nil, err
	}

	// 检查连通性
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(cfg.Database)

	if err = ensureIndexes(ctx, db); err != nil {
		return nil, err
	}

	log.Info("MongoDB initialized successfully", "db", cfg.Database)
	return db, nil
}

// ensureIndexes 报告按 (user, date) 查重，tracker 按 (user, date) 唯一
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("eod_reports").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "submitted_at", Value: -1}}},
	})
	if err != nil {
		return err
	}

	unique := true
	_, err = db.Collection("submission_trackers").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}},
		Options: &options.IndexOptions{Unique: &unique},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("contractors").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slack_id", Value: 1}},
		Options: &options.IndexOptions{Unique: &unique},
	})
	return err
}
