package service

import (
	"Daybook/internal/api/dto"
	"Daybook/internal/model"
	"Daybook/internal/pkg/calendar"
	"Daybook/internal/pkg/consts"
	redisutil "Daybook/internal/pkg/redis"
	"Daybook/internal/pkg/slack"
	"Daybook/internal/repository"
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// SlackDirectory 花名册同步所需的 Slack 目录能力
type SlackDirectory interface {
	ListUsers(ctx context.Context) ([]*slack.UserInfo, error)
	GetUserInfo(ctx context.Context, userID string) (*slack.UserInfo, error)
}

// ContractorService 花名册维护。档案在首次观察到用户时创建，只软停用不删除。
type ContractorService interface {
	ListActive(ctx context.Context) ([]*model.Contractor, error)
	Create(ctx context.Context, req *dto.CreateContractorDTO) error
	SetActive(ctx context.Context, slackID string, active bool) error
	// EnsureObserved 首次提交报告等场景下自动建档，入职日期记为当天
	EnsureObserved(ctx context.Context, slackID string) (*model.Contractor, error)
	// ResolveName 带缓存的用户显示名查询，避免逐用户逐 tick 调用 Slack
	ResolveName(ctx context.Context, slackID string) string
}

type ContractorServiceImpl struct {
	repo      repository.ContractorRepo
	directory SlackDirectory
	cal       *calendar.Service
}

func NewContractorService(repo repository.ContractorRepo, directory SlackDirectory, cal *calendar.Service) ContractorService {
	return &ContractorServiceImpl{repo: repo, directory: directory, cal: cal}
}

func (s *ContractorServiceImpl) ListActive(ctx context.Context) ([]*model.Contractor, error) {
	return s.repo.ListActive(ctx)
}

func (s *ContractorServiceImpl) Create(ctx context.Context, req *dto.CreateContractorDTO) error {
	enrolledAt := s.cal.Today(time.Now())
	if req.EnrolledAt != "" {
		t, err := time.ParseInLocation(consts.DateLayout, req.EnrolledAt, s.cal.Location())
		if err != nil {
			return ErrParamInvalid
		}
		enrolledAt = t
	}

	return s.repo.Upsert(ctx, &model.Contractor{
		SlackID:    req.SlackID,
		Name:       req.Name,
		Email:      req.Email,
		Active:     true,
		EnrolledAt: enrolledAt,
	})
}

func (s *ContractorServiceImpl) SetActive(ctx context.Context, slackID string, active bool) error {
	err := s.repo.SetActive(ctx, slackID, active)
	if err == mongo.ErrNoDocuments {
		return ErrContractorNotFound
	}
	return err
}

func (s *ContractorServiceImpl) EnsureObserved(ctx context.Context, slackID string) (*model.Contractor, error) {
	contractor, err := s.repo.GetBySlackID(ctx, slackID)
	if err != nil {
		return nil, err
	}
	if contractor != nil {
		return contractor, nil
	}

	name := s.ResolveName(ctx, slackID)
	contractor = &model.Contractor{
		SlackID:    slackID,
		Name:       name,
		Active:     true,
		EnrolledAt: s.cal.Today(time.Now()),
	}
	if err = s.repo.Upsert(ctx, contractor); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "contractor auto-enrolled on first observation", "user", slackID, "name", name)
	return contractor, nil
}

func (s *ContractorServiceImpl) ResolveName(ctx context.Context, slackID string) string {
	key := consts.SlackUserInfoKey + slackID
	if cached, err := redisutil.GetValue(ctx, key); err == nil && cached != "" {
		return cached
	}

	info, err := s.directory.GetUserInfo(ctx, slackID)
	if err != nil || info == nil {
		log.WarnContext(ctx, "slack user lookup failed, falling back to id", "user", slackID, "err", err)
		return slackID
	}

	if err = redisutil.SetWithExpiration(ctx, key, info.RealName, time.Hour); err != nil {
		log.WarnContext(ctx, "cache user info failed", "user", slackID, "err", err)
	}
	return info.RealName
}
