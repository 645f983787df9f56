package handler

import (
	"Daybook/internal/api/dto"
	"Daybook/internal/pkg/consts"
	"Daybook/internal/pkg/logger"
	"Daybook/internal/pkg/slack"
	"Daybook/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type SlackInteractiveHandler struct {
	reportSvc service.ReportService
	slackCli  *slack.Client
}

func NewSlackInteractiveHandler(reportSvc service.ReportService, slackCli *slack.Client) *SlackInteractiveHandler {
	return &SlackInteractiveHandler{reportSvc: reportSvc, slackCli: slackCli}
}

// HandleInteractive 模态框提交与按钮回调入口
func (s *SlackInteractiveHandler) HandleInteractive(c *gin.Context) {
	raw := c.PostForm("payload")
	if raw == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	var payload dto.SlackInteractivePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	switch payload.Type {
	case "view_submission":
		s.handleViewSubmission(c, &payload)
	case "block_actions":
		s.handleBlockActions(c, &payload)
	default:
		c.Status(http.StatusOK)
	}
}

func (s *SlackInteractiveHandler) handleViewSubmission(c *gin.Context, payload *dto.SlackInteractivePayload) {
	if payload.View.CallbackID != slack.EODModalCallbackID {
		c.Status(http.StatusOK)
		return
	}

	fields := fieldsFromViewState(&payload.View)
	userID := payload.User.ID
	reportID := payload.View.PrivateMetadata

	// 先关模态框，落库放后台
	go func() {
		ctx := context.WithValue(context.Background(), logger.TraceIDKey, "submit-"+uuid.NewString())
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		var err error
		if reportID != "" {
			_, err = s.reportSvc.EditReport(ctx, reportID, fields)
		} else {
			_, err = s.reportSvc.SubmitReport(ctx, userID, fields)
		}
		if err != nil {
			log.ErrorContext(ctx, "save eod report failed", "user", userID, "err", err)
			if sendErr := s.slackCli.SendMessage(ctx, userID, "Sorry, saving your EOD report failed. Please try again with `/eod`."); sendErr != nil {
				log.ErrorContext(ctx, "send failure notice failed", "user", userID, "err", sendErr)
			}
			return
		}
		if err = s.slackCli.SendMessage(ctx, userID, "✅ Your EOD report is in. Thank you!"); err != nil {
			log.ErrorContext(ctx, "send confirmation failed", "user", userID, "err", err)
		}
	}()

	c.Status(http.StatusOK)
}

func (s *SlackInteractiveHandler) handleBlockActions(c *gin.Context, payload *dto.SlackInteractivePayload) {
	if len(payload.Actions) == 0 {
		c.Status(http.StatusOK)
		return
	}

	actionID := payload.Actions[0].ActionID
	userID := payload.User.ID
	triggerID := payload.TriggerID

	go func() {
		ctx := context.WithValue(context.Background(), logger.TraceIDKey, "action-"+uuid.NewString())
		ctx, cancel := context.WithTimeout(ctx, consts.SlackCallTimeout)
		defer cancel()

		report, err := s.reportSvc.GetTodayReport(ctx, userID, time.Now())
		if err != nil || report == nil {
			log.WarnContext(ctx, "today report unavailable for action", "user", userID, "action", actionID, "err", err)
			return
		}

		switch actionID {
		case "view_report":
			if err = s.slackCli.SendBlocks(ctx, userID, "Your EOD Report", slack.ReportBlocks("You", report)); err != nil {
				log.ErrorContext(ctx, "send report view failed", "user", userID, "err", err)
			}
		case "edit_report":
			view := slack.EODModalView(report.ID.Hex(), report)
			if err = s.slackCli.OpenModal(ctx, triggerID, view); err != nil {
				log.ErrorContext(ctx, "open edit modal failed", "user", userID, "err", err)
			}
		}
	}()

	c.Status(http.StatusOK)
}

func fieldsFromViewState(view *dto.SlackView) *dto.ReportFields {
	value := func(blockID string) string {
		for _, entry := range view.State.Values[blockID] {
			return entry.Value
		}
		return ""
	}
	return &dto.ReportFields{
		ShortTermProjects: value(slack.BlockShortTerm),
		LongTermProjects:  value(slack.BlockLongTerm),
		Blockers:          value(slack.BlockBlockers),
		NextDayGoals:      value(slack.BlockGoals),
		ToolsUsed:         value(slack.BlockTools),
		HelpNeeded:        value(slack.BlockHelp),
		ClientFeedback:    value(slack.BlockClientFeedback),
	}
}
