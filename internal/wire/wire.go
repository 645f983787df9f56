package wire

import (
	"Daybook/internal/api"
	"Daybook/internal/api/config"
	"Daybook/internal/api/handler"
	"Daybook/internal/job"
	"Daybook/internal/pkg/calendar"
	"Daybook/internal/pkg/cron"
	"Daybook/internal/pkg/llm"
	"Daybook/internal/pkg/sheets"
	"Daybook/internal/pkg/slack"
	"Daybook/internal/repository"
	"Daybook/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	CronMgr *cron.Manager
	DB      *mongo.Database
}

func BuildApplication(db *mongo.Database, sheetsCli *sheets.Client, cfg *config.Config) (*ApplicationContainer, error) {
	cal, err := calendar.NewService(cfg.Calendar)
	if err != nil {
		return nil, err
	}

	slackCli := slack.NewClient(cfg.Slack)

	reportRepo := repository.NewReportRepo(db)
	contractorRepo := repository.NewContractorRepo(db)
	trackerRepo := repository.NewTrackerRepo(db)

	escalationSvc := service.NewEscalationService(reportRepo, contractorRepo, cal, cfg.Escalation)
	contractorSvc := service.NewContractorService(contractorRepo, slackCli, cal)
	reportSvc := service.NewReportService(reportRepo, trackerRepo, contractorRepo, escalationSvc, slackCli, cal, cfg.Slack)
	notifySvc := service.NewNotifyService(slackCli, trackerRepo, service.RedisMarkerStore{}, cfg.Slack, cfg.Escalation)
	summarySvc := service.NewSummaryService(reportRepo, contractorRepo, llm.GenerateWeeklySummary, slackCli, cal, cfg.Slack)

	handlers := &api.HandlersGroup{
		SlackEventHandler:       handler.NewSlackEventHandler(reportSvc, contractorSvc, slackCli),
		SlackCommandHandler:     handler.NewSlackCommandHandler(reportSvc, contractorSvc, slackCli),
		SlackInteractiveHandler: handler.NewSlackInteractiveHandler(reportSvc, slackCli),
		AdminHandler:            handler.NewAdminHandler(contractorSvc, slackCli),
		DashboardHandler:        handler.NewDashboardHandler(reportSvc, escalationSvc),
	}

	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(
		cal.Location(),
		cfg.Schedule,
		job.NewPromptJob(contractorSvc, trackerRepo, slackCli, cal, cfg.Escalation),
		job.NewReminderJob(escalationSvc, notifySvc, service.StageReminder),
		job.NewReminderJob(escalationSvc, notifySvc, service.StageFinalWarning),
		job.NewRollupJob(escalationSvc, notifySvc),
		job.NewWeeklySummaryJob(summarySvc, cal),
		job.NewSheetsSyncJob(sheetsCli, reportRepo, trackerRepo, contractorSvc, cal),
	)

	return &ApplicationContainer{
		Router:  router,
		CronMgr: cronMgr,
		DB:      db,
	}, nil
}
