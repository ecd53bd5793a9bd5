package handlers

import (
	"errors"
	"io"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReceiptHandler struct {
	receiptService *service.ReceiptService
	logger         *zap.Logger
}

func NewReceiptHandler(receiptService *service.ReceiptService, logger *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		logger:         logger,
	}
}

// Process godoc
// @Summary Process a receipt
// @Description Upload a receipt (PDF or image), extract its transaction data
// @Description with the AI model and persist the resulting transaction
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Receipt file (PDF or image)"
// @Security Bearer
// @Success 200 {object} dto.ProcessReceiptResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/receipts/process [post]
func (h *ReceiptHandler) Process(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}

	mimeType := fileHeader.Header.Get("Content-Type")

	result, err := h.receiptService.ProcessReceipt(c.Context(), userID, data, mimeType)
	if err != nil {
		return h.pipelineError(c, err)
	}

	return c.JSON(dto.ProcessReceiptResponse{
		Success: true,
		Data: dto.ReceiptDataResponse{
			Amount:      result.Data.Amount,
			Date:        result.Data.Date,
			Merchant:    result.Data.Merchant,
			Category:    result.Data.Category,
			Type:        result.Data.Type,
			Description: result.Data.Description,
			Confidence:  result.Data.Confidence,
		},
		Transaction: dto.ReceiptTransactionRef{
			ID:      result.TransactionID.String(),
			Message: "Transaction saved successfully!",
		},
	})
}

// pipelineError maps the extraction error taxonomy to HTTP codes: input
// problems are 400, everything downstream of the input checks is 500 with
// the underlying message passed through.
func (h *ReceiptHandler) pipelineError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNoFile):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	case errors.Is(err, service.ErrUnsupportedFileType):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File must be a PDF or image",
		})
	}

	var docErr *service.DocumentError
	if errors.As(err, &docErr) {
		h.logger.Error("PDF text extraction failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to process receipt",
			"details": docErr.Error(),
		})
	}

	var modelErr *service.ModelError
	if errors.As(err, &modelErr) {
		h.logger.Error("Model call failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "AI processing failed",
			"details": modelErr.Err.Error(),
		})
	}

	var schemaErr *service.SchemaError
	if errors.As(err, &schemaErr) {
		h.logger.Error("Extraction result rejected", zap.Strings("fields", schemaErr.Fields))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "AI processing failed",
			"details": schemaErr.Error(),
		})
	}

	h.logger.Error("Receipt processing failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":     "Failed to process receipt",
		"details":   err.Error(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
