package handlers

import (
	"errors"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/repository"
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	txService *service.TransactionService
	logger    *zap.Logger
}

func NewTransactionHandler(txService *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		logger:    logger,
	}
}

// List godoc
// @Summary List transactions
// @Description List the caller's transactions in a date range, newest first
// @Tags transactions
// @Produce json
// @Param from query string true "Range start (YYYY-MM-DD or RFC3339)"
// @Param to query string true "Range end (YYYY-MM-DD or RFC3339)"
// @Param limit query int false "Limit" default(10)
// @Param offset query int false "Offset" default(0)
// @Param search query string false "Match description or category, case-insensitive"
// @Param type query string false "income or expense"
// @Param category query string false "Exact category"
// @Security Bearer
// @Success 200 {object} dto.TransactionListResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
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

	resp, err := h.txService.List(c.Context(), userID, service.ListParams{
		From:     from,
		To:       to,
		Limit:    c.QueryInt("limit", 10),
		Offset:   c.QueryInt("offset", 0),
		Search:   c.Query("search"),
		Type:     c.Query("type"),
		Category: c.Query("category"),
	})
	if err != nil {
		return h.serviceError(c, err, "Failed to list transactions")
	}

	return c.JSON(resp)
}

// Create godoc
// @Summary Create a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.CreateTransactionRequest true "Transaction"
// @Security Bearer
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.txService.Create(c.Context(), userID, &req)
	if err != nil {
		return h.serviceError(c, err, "Failed to create transaction")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Update godoc
// @Summary Update a transaction
// @Description Apply a partial update to the caller's own transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body dto.UpdateTransactionRequest true "Fields to update"
// @Security Bearer
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid transaction ID",
		})
	}

	var req dto.UpdateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.txService.Update(c.Context(), userID, id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Transaction not found",
			})
		}
		return h.serviceError(c, err, "Failed to update transaction")
	}

	return c.JSON(resp)
}

// Delete godoc
// @Summary Delete a transaction
// @Description Delete the caller's own transaction. Deleting another user's
// @Description transaction is a silent no-op with a zero count.
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Security Bearer
// @Success 200 {object} dto.DeleteTransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid transaction ID",
		})
	}

	deleted, err := h.txService.Delete(c.Context(), userID, id)
	if err != nil {
		return h.serviceError(c, err, "Failed to delete transaction")
	}

	return c.JSON(dto.DeleteTransactionResponse{Deleted: deleted})
}

// Summary godoc
// @Summary Per-category totals
// @Tags transactions
// @Produce json
// @Param from query string true "Range start"
// @Param to query string true "Range end"
// @Param type query string true "income or expense"
// @Security Bearer
// @Success 200 {array} dto.CategorySummaryResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/transactions/summary [get]
func (h *TransactionHandler) Summary(c *fiber.Ctx) error {
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

	resp, err := h.txService.Summary(c.Context(), userID, from, to, c.Query("type", "expense"))
	if err != nil {
		return h.serviceError(c, err, "Failed to build summary")
	}

	return c.JSON(resp)
}

// Categories godoc
// @Summary Distinct categories used in a range
// @Tags transactions
// @Produce json
// @Param from query string true "Range start"
// @Param to query string true "Range end"
// @Security Bearer
// @Success 200 {array} string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/transactions/categories [get]
func (h *TransactionHandler) Categories(c *fiber.Ctx) error {
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

	categories, err := h.txService.Categories(c.Context(), userID, from, to)
	if err != nil {
		return h.serviceError(c, err, "Failed to list categories")
	}
	if categories == nil {
		categories = []string{}
	}

	return c.JSON(categories)
}

func (h *TransactionHandler) serviceError(c *fiber.Ctx, err error, msg string) error {
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

func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}

// getDateRange reads the required from/to query parameters. Both accept
// RFC3339 timestamps or bare YYYY-MM-DD dates; a bare "to" date covers the
// whole day.
func getDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	from, err := parseDateParam(c.Query("from"), false)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("from must be an ISO date")
	}

	to, err := parseDateParam(c.Query("to"), true)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("to must be an ISO date")
	}

	return from, to, nil
}

func parseDateParam(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
