package handler

import (
	"go-retail-admin/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler serves the read-only views: sales, audit log and dashboard.
type ReportHandler struct {
	sales     service.SalesService
	logs      service.LogService
	dashboard service.DashboardService
}

func NewReportHandler(sales service.SalesService, logs service.LogService, dashboard service.DashboardService) *ReportHandler {
	return &ReportHandler{sales: sales, logs: logs, dashboard: dashboard}
}

func (h *ReportHandler) GetSalesStats(c *fiber.Ctx) error {
	stats, err := h.sales.GetSalesStats(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}

// GetSalesHistory Query params: limit (default 100)
func (h *ReportHandler) GetSalesHistory(c *fiber.Ctx) error {
	history, err := h.sales.GetSalesHistory(c.UserContext(), queryInt(c, "limit"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(history)
}

// GetSystemLogs Query params: limit (default 100, max 500)
func (h *ReportHandler) GetSystemLogs(c *fiber.Ctx) error {
	logs, err := h.logs.GetSystemLogs(c.UserContext(), queryInt(c, "limit"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(logs)
}

func (h *ReportHandler) GetDashboardSummary(c *fiber.Ctx) error {
	summary, err := h.dashboard.Summary(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}

// GetStockMovement returns stock movement data for charts
// Query params: days (default 7)
func (h *ReportHandler) GetStockMovement(c *fiber.Ctx) error {
	days := queryInt(c, "days")
	if days == 0 {
		days = 7
	}

	data, err := h.dashboard.GetStockMovement(c.UserContext(), days)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}
