package handlers

import (
	"errors"

	"fintrack/internal/models"
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// Monthly godoc
// @Summary Monthly report
// @Description Per-month income, expenses, net and top expense category
// @Tags reports
// @Produce json
// @Param from query string true "Range start"
// @Param to query string true "Range end"
// @Security Bearer
// @Success 200 {array} dto.MonthlyReportEntry
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/reports/monthly [get]
func (h *ReportHandler) Monthly(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	from, to, err := getDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	report, err := h.reportService.MonthlyReport(c.Context(), userID, from, to)
	if err != nil {
		return h.serviceError(c, err, "Failed to build monthly report")
	}

	return c.JSON(report)
}

// CategoryBreakdown godoc
// @Summary Category breakdown
// @Description Per-category share of the total for one transaction type
// @Tags reports
// @Produce json
// @Param from query string true "Range start"
// @Param to query string true "Range end"
// @Param type query string false "income or expense" default(expense)
// @Security Bearer
// @Success 200 {array} dto.CategoryBreakdownEntry
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/reports/categories [get]
func (h *ReportHandler) CategoryBreakdown(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	from, to, err := getDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	txType := c.Query("type", "expense")
	if !models.ValidTransactionType(txType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "type must be income or expense",
		})
	}

	breakdown, err := h.reportService.CategoryBreakdown(c.Context(), userID, from, to, models.TransactionType(txType))
	if err != nil {
		return h.serviceError(c, err, "Failed to build category breakdown")
	}

	return c.JSON(breakdown)
}

// Summary godoc
// @Summary Financial summary
// @Description Aggregate totals and average transaction value for a range
// @Tags reports
// @Produce json
// @Param from query string true "Range start"
// @Param to query string true "Range end"
// @Security Bearer
// @Success 200 {object} dto.FinancialSummary
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	from, to, err := getDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	summary, err := h.reportService.FinancialSummary(c.Context(), userID, from, to)
	if err != nil {
		return h.serviceError(c, err, "Failed to build financial summary")
	}

	return c.JSON(summary)
}

// Trends godoc
// @Summary Trend data
// @Description Time-bucketed income/expense/net series
// @Tags reports
// @Produce json
// @Param from query string true "Range start"
// @Param to query string true "Range end"
// @Param period query string false "daily, weekly or monthly" default(monthly)
// @Security Bearer
// @Success 200 {array} dto.TrendEntry
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/reports/trends [get]
func (h *ReportHandler) Trends(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	from, to, err := getDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	trend, err := h.reportService.TrendData(c.Context(), userID, from, to, c.Query("period", "monthly"))
	if err != nil {
		return h.serviceError(c, err, "Failed to build trend data")
	}

	return c.JSON(trend)
}

func (h *ReportHandler) serviceError(c *fiber.Ctx, err error, msg string) error {
	var inputErr *service.InputError
	if errors.As(err, &inputErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": inputErr.Reason,
		})
	}

	h.logger.Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": msg,
	})
}
