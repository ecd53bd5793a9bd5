package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// ValidTransactionType reports whether s is one of the two transaction types.
func ValidTransactionType(s string) bool {
	return s == string(TypeIncome) || s == string(TypeExpense)
}

// UncategorizedLabel is the label aggregations use for transactions
// without a category.
const UncategorizedLabel = "Uncategorized"

type Transaction struct {
	ID          uuid.UUID       `db:"id"`
	UserID      uuid.UUID       `db:"user_id"`
	Type        TransactionType `db:"type"`
	Category    string          `db:"category"` // empty means uncategorized
	Amount      float64         `db:"amount"`
	Description string          `db:"description"`
	Date        time.Time       `db:"date"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}
