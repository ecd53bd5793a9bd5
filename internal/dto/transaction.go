package dto

type CreateTransactionRequest struct {
	Type        string  `json:"type"`
	Category    string  `json:"category,omitempty"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date"`
}

// UpdateTransactionRequest carries a partial update; nil fields are left
// unchanged.
type UpdateTransactionRequest struct {
	Type        *string  `json:"type,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Description *string  `json:"description,omitempty"`
	Date        *string  `json:"date,omitempty"`
}

type TransactionResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Category    string  `json:"category,omitempty"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"created_at"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	TotalCount   int64                 `json:"totalCount"`
}

type CategorySummaryResponse struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type DeleteTransactionResponse struct {
	Deleted int64 `json:"deleted"`
}
