package service

import (
	"context"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

type TransactionService struct {
	store  TransactionStore
	logger *zap.Logger
}

func NewTransactionService(store TransactionStore, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		store:  store,
		logger: logger,
	}
}

// ListParams mirrors the list query surface: an inclusive date range plus
// optional paging, search, and field filters.
type ListParams struct {
	From     time.Time
	To       time.Time
	Limit    int
	Offset   int
	Search   string
	Type     string
	Category string
}

func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, params ListParams) (*dto.TransactionListResponse, error) {
	if params.Limit < 1 {
		params.Limit = defaultListLimit
	}
	if params.Limit > maxListLimit {
		params.Limit = maxListLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	if params.Type != "" && !models.ValidTransactionType(params.Type) {
		return nil, &InputError{Reason: "type must be income or expense"}
	}

	transactions, totalCount, err := s.store.List(ctx, userID, repository.TransactionFilter{
		From:     params.From,
		To:       params.To,
		Limit:    params.Limit,
		Offset:   params.Offset,
		Search:   params.Search,
		Type:     params.Type,
		Category: params.Category,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TransactionResponse, len(transactions))
	for i, tx := range transactions {
		responses[i] = toTransactionResponse(tx)
	}

	return &dto.TransactionListResponse{
		Transactions: responses,
		TotalCount:   totalCount,
	}, nil
}

func (s *TransactionService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if !models.ValidTransactionType(req.Type) {
		return nil, &InputError{Reason: "type must be income or expense"}
	}
	if req.Amount <= 0 {
		return nil, &InputError{Reason: "amount must be positive"}
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, &InputError{Reason: "date must be an ISO date"}
	}

	now := time.Now()
	tx := &models.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        models.TransactionType(req.Type),
		Category:    req.Category,
		Amount:      req.Amount,
		Description: sanitizeUTF8(req.Description),
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Create(ctx, tx); err != nil {
		return nil, err
	}

	resp := toTransactionResponse(tx)
	return &resp, nil
}

func (s *TransactionService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	fields := map[string]interface{}{}

	if req.Type != nil {
		if !models.ValidTransactionType(*req.Type) {
			return nil, &InputError{Reason: "type must be income or expense"}
		}
		fields["type"] = *req.Type
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, &InputError{Reason: "amount must be positive"}
		}
		fields["amount"] = *req.Amount
	}
	if req.Description != nil {
		fields["description"] = sanitizeUTF8(*req.Description)
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, &InputError{Reason: "date must be an ISO date"}
		}
		fields["date"] = date
	}

	if len(fields) == 0 {
		return nil, &InputError{Reason: "no fields to update"}
	}

	tx, err := s.store.Update(ctx, userID, id, fields)
	if err != nil {
		return nil, err
	}

	resp := toTransactionResponse(tx)
	return &resp, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	return s.store.Delete(ctx, userID, id)
}

// Summary returns per-category totals for one transaction type.
func (s *TransactionService) Summary(ctx context.Context, userID uuid.UUID, from, to time.Time, txType string) ([]dto.CategorySummaryResponse, error) {
	if !models.ValidTransactionType(txType) {
		return nil, &InputError{Reason: "type must be income or expense"}
	}

	sums, err := s.store.SumByCategory(ctx, userID, from, to, models.TransactionType(txType))
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CategorySummaryResponse, len(sums))
	for i, sum := range sums {
		responses[i] = dto.CategorySummaryResponse{
			Category: sum.Category,
			Total:    sum.Total,
		}
	}

	return responses, nil
}

func (s *TransactionService) Categories(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]string, error) {
	return s.store.ListCategories(ctx, userID, from, to)
}

func toTransactionResponse(tx *models.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          tx.ID.String(),
		Type:        string(tx.Type),
		Category:    tx.Category,
		Amount:      tx.Amount,
		Description: tx.Description,
		Date:        tx.Date.Format(time.RFC3339),
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
}

// parseDate accepts RFC3339 timestamps and bare YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
