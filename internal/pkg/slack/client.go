package slack

import (
	"Daybook/internal/api/config"
	"Daybook/internal/pkg/consts"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

const apiBaseURL = "https://slack.com/api"

// Client Slack Web API 的薄封装，仅覆盖机器人用到的几个端点
type Client struct {
	http *resty.Client
}

// apiResponse Slack 所有端点共用的外层响应
type apiResponse struct {
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Users []member        `json:"members,omitempty"`
	User  *member         `json:"user,omitempty"`
	Raw   json.RawMessage `json:"response_metadata,omitempty"`
}

type member struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
	IsBot   bool   `json:"is_bot"`
	Profile struct {
		RealName string `json:"real_name"`
		Email    string `json:"email"`
	} `json:"profile"`
}

// UserInfo 机器人关心的用户元数据子集
type UserInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"real_name"`
	Email    string `json:"email"`
	Deleted  bool   `json:"deleted"`
	IsBot    bool   `json:"is_bot"`
}

func NewClient(cfg config.SlackConfig) *Client {
	client := resty.New().
		SetBaseURL(apiBaseURL).
		SetTimeout(consts.SlackCallTimeout).
		SetAuthToken(cfg.BotToken).
		SetHeader("Content-Type", "application/json; charset=utf-8")

	return &Client{http: client}
}

// SendMessage 发送纯文本消息，target 可以是频道名或用户 ID（DM）
func (s *Client) SendMessage(ctx context.Context, target string, text string) error {
	body := map[string]any{
		"channel": target,
		"text":    text,
	}
	return s.call(ctx, "chat.postMessage", body, nil)
}

// SendBlocks 发送 Block Kit 消息
func (s *Client) SendBlocks(ctx context.Context, target string, text string, blocks []map[string]any) error {
	body := map[string]any{
		"channel": target,
		"text":    text,
		"blocks":  blocks,
	}
	return s.call(ctx, "chat.postMessage", body, nil)
}

// SendEphemeral 发送仅目标用户可见的频道内消息
func (s *Client) SendEphemeral(ctx context.Context, channel string, userID string, text string) error {
	body := map[string]any{
		"channel": channel,
		"user":    userID,
		"text":    text,
	}
	return s.call(ctx, "chat.postEphemeral", body, nil)
}

// OpenModal 用 trigger_id 打开模态框，trigger_id 有 3 秒有效期
func (s *Client) OpenModal(ctx context.Context, triggerID string, view map[string]any) error {
	body := map[string]any{
		"trigger_id": triggerID,
		"view":       view,
	}
	return s.call(ctx, "views.open", body, nil)
}

// ListUsers 拉取工作区全部成员，排除机器人与已停用账号
func (s *Client) ListUsers(ctx context.Context) ([]*UserInfo, error) {
	var resp apiResponse
	if err := s.call(ctx, "users.list", map[string]any{"limit": 500}, &resp); err != nil {
		return nil, err
	}

	users := make([]*UserInfo, 0, len(resp.Users))
	for _, m := range resp.Users {
		if m.Deleted || m.IsBot || m.ID == "USLACKBOT" {
			continue
		}
		users = append(users, memberToInfo(m))
	}
	return users, nil
}

// GetUserInfo 查询单个用户元数据
func (s *Client) GetUserInfo(ctx context.Context, userID string) (*UserInfo, error) {
	var resp apiResponse
	if err := s.call(ctx, "users.info", map[string]any{"user": userID}, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("slack users.info: empty user for %s", userID)
	}
	return memberToInfo(*resp.User), nil
}

func memberToInfo(m member) *UserInfo {
	name := m.Profile.RealName
	if name == "" {
		name = m.Name
	}
	return &UserInfo{
		ID:       m.ID,
		Name:     m.Name,
		RealName: name,
		Email:    m.Profile.Email,
		Deleted:  m.Deleted,
		IsBot:    m.IsBot,
	}
}

func (s *Client) call(ctx context.Context, method string, body map[string]any, out *apiResponse) error {
	start := time.Now()

	res, err := s.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/" + method)
	if err != nil {
		return fmt.Errorf("slack %s: %w", method, err)
	}

	var resp apiResponse
	if out != nil {
		if err = json.Unmarshal(res.Body(), out); err != nil {
			return fmt.Errorf("slack %s: decode: %w", method, err)
		}
		resp = *out
	} else {
		if err = json.Unmarshal(res.Body(), &resp); err != nil {
			return fmt.Errorf("slack %s: decode: %w", method, err)
		}
	}

	if !resp.OK {
		return fmt.Errorf("slack %s: %s", method, resp.Error)
	}

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		log.WarnContext(ctx, "Slack Slow", "method", method, "latency", elapsed)
	}
	return nil
}
