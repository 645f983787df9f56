package handler

import (
	"Daybook/internal/api/dto"
	"Daybook/internal/pkg/logger"
	"Daybook/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const helpText = "Here's how I work:\n" +
	"• `/eod` — open the End of Day report form\n" +
	"• `status` — check whether today's report is in\n" +
	"• `help` — show this message\n" +
	"Reports are expected every working day. I'll nudge you if one is missing."

type SlackEventHandler struct {
	reportSvc     service.ReportService
	contractorSvc service.ContractorService
	sender        service.MessageSender
}

func NewSlackEventHandler(reportSvc service.ReportService, contractorSvc service.ContractorService, sender service.MessageSender) *SlackEventHandler {
	return &SlackEventHandler{
		reportSvc:     reportSvc,
		contractorSvc: contractorSvc,
		sender:        sender,
	}
}

// HandleEvent Events API 入口。Slack 要求 3 秒内应答，实际处理丢后台
func (s *SlackEventHandler) HandleEvent(c *gin.Context) {
	var envelope dto.SlackEventEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if envelope.Type == "url_verification" {
		c.JSON(http.StatusOK, gin.H{"challenge": envelope.Challenge})
		return
	}

	event := envelope.Event
	if envelope.Type == "event_callback" && event.Type == "message" &&
		event.ChannelType == "im" && event.BotID == "" && event.SubType == "" {
		go s.handleDirectMessage(event)
	}

	c.Status(http.StatusOK)
}

func (s *SlackEventHandler) handleDirectMessage(event dto.SlackEvent) {
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, "event-"+uuid.NewString())

	if _, err := s.contractorSvc.EnsureObserved(ctx, event.User); err != nil {
		log.WarnContext(ctx, "observe contractor failed", "user", event.User, "err", err)
	}

	var reply string
	text := strings.TrimSpace(event.Text)
	switch strings.ToLower(text) {
	case "status":
		status, err := s.reportSvc.StatusText(ctx, event.User, time.Now())
		if err != nil {
			log.ErrorContext(ctx, "status lookup failed", "user", event.User, "err", err)
			status = "Sorry, I couldn't look up your status right now. Please try again."
		}
		reply = status
	case "help", "hi", "hello":
		reply = helpText
	default:
		reply = s.handleFreeText(ctx, event.User, text)
	}

	if err := s.sender.SendMessage(ctx, event.Channel, reply); err != nil {
		log.ErrorContext(ctx, "send dm reply failed", "user", event.User, "err", err)
	}
}

// freeTextMinLen 以下的私信当问候处理，以上的当整段报告正文收下
const freeTextMinLen = 20

func (s *SlackEventHandler) handleFreeText(ctx context.Context, userID string, text string) string {
	if len(text) < freeTextMinLen {
		return "Use `/eod` to submit your End of Day report, or say `status` / `help`."
	}

	fields := &dto.ReportFields{ShortTermProjects: text}
	if _, err := s.reportSvc.SubmitReport(ctx, userID, fields); err != nil {
		log.ErrorContext(ctx, "free-text report save failed", "user", userID, "err", err)
		return "Sorry, I couldn't save that as your EOD report. Please try `/eod` for the structured form."
	}
	return "✅ Got it — saved as today's EOD report. For a structured report next time, use `/eod`."
}
