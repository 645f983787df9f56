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
	"github.com/google/uuid"
)

type SlackCommandHandler struct {
	reportSvc     service.ReportService
	contractorSvc service.ContractorService
	slackCli      *slack.Client
}

func NewSlackCommandHandler(reportSvc service.ReportService, contractorSvc service.ContractorService, slackCli *slack.Client) *SlackCommandHandler {
	return &SlackCommandHandler{
		reportSvc:     reportSvc,
		contractorSvc: contractorSvc,
		slackCli:      slackCli,
	}
}

// HandleCommand slash command 入口，当前只注册了 /eod
func (s *SlackCommandHandler) HandleCommand(c *gin.Context) {
	var cmd dto.SlackCommandDTO
	if err := c.ShouldBind(&cmd); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	switch cmd.Command {
	case "/eod":
		s.handleEOD(c, &cmd)
	default:
		c.JSON(http.StatusOK, gin.H{
			"response_type": "ephemeral",
			"text":          "Unknown command.",
		})
	}
}

func (s *SlackCommandHandler) handleEOD(c *gin.Context, cmd *dto.SlackCommandDTO) {
	ctx := c.Request.Context()

	if _, err := s.contractorSvc.EnsureObserved(ctx, cmd.UserID); err != nil {
		log.WarnContext(ctx, "observe contractor failed", "user", cmd.UserID, "err", err)
	}

	existing, err := s.reportSvc.GetTodayReport(ctx, cmd.UserID, time.Now())
	if err != nil {
		log.ErrorContext(ctx, "today report lookup failed", "user", cmd.UserID, "err", err)
	}
	if existing != nil {
		c.JSON(http.StatusOK, gin.H{
			"response_type": "ephemeral",
			"text":          "You have already submitted your EOD report today.",
			"blocks":        slack.AlreadySubmittedBlocks(existing.Date),
		})
		return
	}

	// trigger_id 有效期很短，modal 打开放后台，先应答 Slack
	triggerID := cmd.TriggerID
	go func() {
		bgCtx := context.WithValue(context.Background(), logger.TraceIDKey, "cmd-"+uuid.NewString())
		bgCtx, cancel := context.WithTimeout(bgCtx, consts.SlackCallTimeout)
		defer cancel()
		if err := s.slackCli.OpenModal(bgCtx, triggerID, slack.EODModalView("", nil)); err != nil {
			log.ErrorContext(bgCtx, "open eod modal failed", "user", cmd.UserID, "err", err)
		}
	}()

	c.Status(http.StatusOK)
}
