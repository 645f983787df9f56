package api

import (
	"Daybook/internal/api/config"
	"Daybook/internal/api/middleware"
	"Daybook/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	// Slack 回调走签名校验，不走 JWT
	slackGroup := r.Group("/slack")
	slackGroup.Use(middleware.SlackVerifyMiddleware(config.Cfg.Slack.SigningSecret))
	{
		slackGroup.POST("/events", group.SlackEventHandler.HandleEvent)
		slackGroup.POST("/commands", group.SlackCommandHandler.HandleCommand)
		slackGroup.POST("/interactive", group.SlackInteractiveHandler.HandleInteractive)
	}

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		adminGroup := apiGroup.Group("/admin")
		{
			adminGroup.POST("/login", group.AdminHandler.Login)

			authGroup := adminGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles("ADMIN"))
			{
				authGroup.GET("/contractors", group.AdminHandler.ListContractors)
				authGroup.GET("/slack-users", group.AdminHandler.ListSlackUsers)
				authGroup.POST("/contractors", group.AdminHandler.CreateContractor)
				authGroup.PUT("/contractors/:slack_id/active", group.AdminHandler.SetContractorActive)
			}
		}

		dashboardGroup := apiGroup.Group("/dashboard")
		dashboardGroup.Use(middleware.AuthMiddleware())
		{
			dashboardGroup.GET("/reports", group.DashboardHandler.GetRecentReports)
			dashboardGroup.GET("/status", group.DashboardHandler.GetTodayStatus)
		}
	}

	return r
}
