package service

import (
	"context"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repository"

	"github.com/google/uuid"
)

// TransactionStore is the user-scoped transaction accessor the services work
// against. *repository.TransactionRepository is the production
// implementation; tests substitute an in-memory fake.
type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error)
	Update(ctx context.Context, userID, id uuid.UUID, fields map[string]interface{}) (*models.Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (int64, error)
	List(ctx context.Context, userID uuid.UUID, filter repository.TransactionFilter) ([]*models.Transaction, int64, error)
	ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.Transaction, error)
	SumByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time, txType models.TransactionType) ([]repository.CategorySum, error)
	ListCategories(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]string, error)
}
