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

// ReportRepo 报告台账。催报引擎只消费前两个查询，其余供提交/导出链路使用。
type ReportRepo interface {
	// GetSubmittedUserIDs 返回 submitted_at 落在 [start, end) 内至少有一条报告的用户集合
	GetSubmittedUserIDs(ctx context.Context, start, end time.Time) (map[string]struct{}, error)
	// GetSubmissionDates 返回该用户自 since 起有报告的业务日期集合（键为 YYYY-MM-DD）
	GetSubmissionDates(ctx context.Context, slackID string, since time.Time) (map[string]struct{}, error)
	InsertReport(ctx context.Context, report *model.EODReport) (string, error)
	UpdateReport(ctx context.Context, id string, report *model.EODReport) error
	GetReportByID(ctx context.Context, id string) (*model.EODReport, error)
	GetReportForDate(ctx context.Context, slackID string, date string) (*model.EODReport, error)
	ListReportsSince(ctx context.Context, since time.Time) ([]*model.EODReport, error)
	ListUserReportsSince(ctx context.Context, slackID string, since time.Time) ([]*model.EODReport, error)
}

type ReportRepoImpl struct {
	col *mongo.Collection
}

func NewReportRepo(db *mongo.Database) ReportRepo {
	return &ReportRepoImpl{col: db.Collection("eod_reports")}
}

func (s *ReportRepoImpl) GetSubmittedUserIDs(ctx context.Context, start, end time.Time) (map[string]struct{}, error) {
	filter := bson.M{"submitted_at": bson.M{"$gte": start, "$lt": end}}

	values, err := s.col.Distinct(ctx, "user_id", filter)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]struct{}, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}

func (s *ReportRepoImpl) GetSubmissionDates(ctx context.Context, slackID string, since time.Time) (map[string]struct{}, error) {
	filter := bson.M{
		"user_id":      slackID,
		"submitted_at": bson.M{"$gte": since},
	}

	values, err := s.col.Distinct(ctx, "date", filter)
	if err != nil {
		return nil, err
	}

	dates := make(map[string]struct{}, len(values))
	for _, v := range values {
		if d, ok := v.(string); ok && d != "" {
			dates[d] = struct{}{}
		}
	}
	return dates, nil
}

func (s *ReportRepoImpl) InsertReport(ctx context.Context, report *model.EODReport) (string, error) {
	res, err := s.col.InsertOne(ctx, report)
	if err != nil {
		return "", err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

// UpdateReport 编辑只改正文与 updated_at，不改 submitted_at 与归属日期
func (s *ReportRepoImpl) UpdateReport(ctx context.Context, id string, report *model.EODReport) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"short_term_projects": report.ShortTermProjects,
		"long_term_projects":  report.LongTermProjects,
		"blockers":            report.Blockers,
		"next_day_goals":      report.NextDayGoals,
		"tools_used":          report.ToolsUsed,
		"help_needed":         report.HelpNeeded,
		"client_feedback":     report.ClientFeedback,
		"updated_at":          time.Now(),
	}}

	_, err = s.col.UpdateByID(ctx, oid, update)
	return err
}

func (s *ReportRepoImpl) GetReportByID(ctx context.Context, id string) (*model.EODReport, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var report model.EODReport
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

// GetReportForDate 同一 (用户, 日期) 存在多条时取最早一条，重复提交不影响计数
func (s *ReportRepoImpl) GetReportForDate(ctx context.Context, slackID string, date string) (*model.EODReport, error) {
	filter := bson.M{"user_id": slackID, "date": date}
	opts := options.FindOne().SetSort(bson.D{{Key: "submitted_at", Value: 1}})

	var report model.EODReport
	err := s.col.FindOne(ctx, filter, opts).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (s *ReportRepoImpl) ListReportsSince(ctx context.Context, since time.Time) ([]*model.EODReport, error) {
	return s.findReports(ctx, bson.M{"submitted_at": bson.M{"$gte": since}})
}

func (s *ReportRepoImpl) ListUserReportsSince(ctx context.Context, slackID string, since time.Time) ([]*model.EODReport, error) {
	return s.findReports(ctx, bson.M{
		"user_id":      slackID,
		"submitted_at": bson.M{"$gte": since},
	})
}

func (s *ReportRepoImpl) findReports(ctx context.Context, filter bson.M) ([]*model.EODReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var reports []*model.EODReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}
