package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceiptService drives one uploaded receipt through the extraction pipeline:
// input checks, text extraction for PDFs, one model call, schema validation,
// one insert. Strictly sequential and single-attempt; any step failure is
// terminal for the request.
type ReceiptService struct {
	store     TransactionStore
	extractor ReceiptExtractor
	logger    *zap.Logger
}

func NewReceiptService(store TransactionStore, extractor ReceiptExtractor, logger *zap.Logger) *ReceiptService {
	return &ReceiptService{
		store:     store,
		extractor: extractor,
		logger:    logger,
	}
}

// ProcessedReceipt is the successful pipeline result: the validated
// extraction and the ID of the persisted transaction.
type ProcessedReceipt struct {
	Data          *ReceiptData
	TransactionID uuid.UUID
}

// ProcessReceipt runs the whole pipeline for one file. The owning user comes
// from the authenticated caller, never from the upload.
func (s *ReceiptService) ProcessReceipt(ctx context.Context, userID uuid.UUID, data []byte, mimeType string) (*ProcessedReceipt, error) {
	if len(data) == 0 {
		return nil, ErrNoFile
	}

	isPDF := strings.Contains(mimeType, "pdf")
	isImage := strings.HasPrefix(mimeType, "image/")
	if !isPDF && !isImage {
		return nil, ErrUnsupportedFileType
	}

	var raw []byte
	var err error
	if isPDF {
		text, err := extractPDFText(data)
		if err != nil {
			return nil, err
		}
		s.logger.Info("PDF text extracted", zap.Int("length", len(text)))

		raw, err = s.extractor.ExtractFromText(ctx, text)
		if err != nil {
			return nil, err
		}
	} else {
		raw, err = s.extractor.ExtractFromImage(ctx, data, mimeType)
		if err != nil {
			return nil, err
		}
	}

	receipt, err := ParseReceiptData(raw)
	if err != nil {
		return nil, err
	}

	tx := receipt.Transaction(userID, time.Now())
	if err := s.store.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.logger.Info("Receipt processed",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("merchant", receipt.Merchant),
		zap.Float64("amount", receipt.Amount),
		zap.Float64("confidence", receipt.Confidence),
	)

	return &ProcessedReceipt{
		Data:          receipt,
		TransactionID: tx.ID,
	}, nil
}
