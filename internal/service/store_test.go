package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repository"

	"github.com/google/uuid"
)

// fakeStore is an in-memory TransactionStore with the same user scoping
// semantics as the real repository.
type fakeStore struct {
	transactions []*models.Transaction
	createErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (s *fakeStore) Create(ctx context.Context, tx *models.Transaction) error {
	if s.createErr != nil {
		return s.createErr
	}
	clone := *tx
	s.transactions = append(s.transactions, &clone)
	return nil
}

func (s *fakeStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	for _, tx := range s.transactions {
		if tx.ID == id && tx.UserID == userID {
			clone := *tx
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) Update(ctx context.Context, userID, id uuid.UUID, fields map[string]interface{}) (*models.Transaction, error) {
	for _, tx := range s.transactions {
		if tx.ID != id || tx.UserID != userID {
			continue
		}
		for key, value := range fields {
			switch key {
			case "type":
				tx.Type = models.TransactionType(value.(string))
			case "category":
				tx.Category = value.(string)
			case "amount":
				tx.Amount = value.(float64)
			case "description":
				tx.Description = value.(string)
			case "date":
				tx.Date = value.(time.Time)
			}
		}
		tx.UpdatedAt = time.Now()
		clone := *tx
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	for i, tx := range s.transactions {
		if tx.ID == id && tx.UserID == userID {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *fakeStore) matching(userID uuid.UUID, from, to time.Time) []*models.Transaction {
	var result []*models.Transaction
	for _, tx := range s.transactions {
		if tx.UserID != userID {
			continue
		}
		if tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		result = append(result, tx)
	}
	return result
}

func (s *fakeStore) List(ctx context.Context, userID uuid.UUID, filter repository.TransactionFilter) ([]*models.Transaction, int64, error) {
	var matched []*models.Transaction
	for _, tx := range s.matching(userID, filter.From, filter.To) {
		if filter.Type != "" && string(tx.Type) != filter.Type {
			continue
		}
		if filter.Category != "" && tx.Category != filter.Category {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(tx.Description), needle) &&
				!strings.Contains(strings.ToLower(tx.Category), needle) {
				continue
			}
		}
		matched = append(matched, tx)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})

	total := int64(len(matched))
	if filter.Offset < len(matched) {
		matched = matched[filter.Offset:]
	} else {
		matched = nil
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	return matched, total, nil
}

func (s *fakeStore) ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.Transaction, error) {
	matched := s.matching(userID, from, to)
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date.Before(matched[j].Date)
	})
	return matched, nil
}

func (s *fakeStore) SumByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time, txType models.TransactionType) ([]repository.CategorySum, error) {
	totals := make(map[string]*repository.CategorySum)
	for _, tx := range s.matching(userID, from, to) {
		if tx.Type != txType {
			continue
		}
		sum, ok := totals[tx.Category]
		if !ok {
			sum = &repository.CategorySum{Category: tx.Category}
			totals[tx.Category] = sum
		}
		sum.Total += tx.Amount
		sum.Count++
	}

	var result []repository.CategorySum
	for _, sum := range totals {
		result = append(result, *sum)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Total > result[j].Total
	})
	return result, nil
}

func (s *fakeStore) ListCategories(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]string, error) {
	seen := make(map[string]bool)
	for _, tx := range s.matching(userID, from, to) {
		if tx.Category != "" {
			seen[tx.Category] = true
		}
	}

	var categories []string
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories, nil
}
