package api

import "Daybook/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	SlackEventHandler       *handler.SlackEventHandler
	SlackCommandHandler     *handler.SlackCommandHandler
	SlackInteractiveHandler *handler.SlackInteractiveHandler
	AdminHandler            *handler.AdminHandler
	DashboardHandler        *handler.DashboardHandler
}
