package handler

import (
	"Daybook/internal/pkg/response"
	"Daybook/internal/service"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	reportSvc     service.ReportService
	escalationSvc service.EscalationService
}

func NewDashboardHandler(reportSvc service.ReportService, escalationSvc service.EscalationService) *DashboardHandler {
	return &DashboardHandler{reportSvc: reportSvc, escalationSvc: escalationSvc}
}

// GetRecentReports 最近 N 天的报告列表，默认 7 天
func (s *DashboardHandler) GetRecentReports(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days <= 0 || days > 90 {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}

	since := time.Now().AddDate(0, 0, -days)
	items, getErr := s.reportSvc.ListRecent(c.Request.Context(), since)
	if getErr != nil {
		response.Error(c, getErr)
		return
	}
	response.Success(c, items)
}

// GetTodayStatus 当日提交快照：名册规模、已交数、缺报明细
func (s *DashboardHandler) GetTodayStatus(c *gin.Context) {
	run, err := s.escalationSvc.ComputeRun(c.Request.Context(), time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	if run == nil {
		response.Error(c, service.ErrNotBusinessDay)
		return
	}
	response.Success(c, run)
}
