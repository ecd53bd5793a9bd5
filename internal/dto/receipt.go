package dto

type ReceiptDataResponse struct {
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Merchant    string  `json:"merchant"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Confidence  float64 `json:"confidence"`
}

type ReceiptTransactionRef struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type ProcessReceiptResponse struct {
	Success     bool                  `json:"success"`
	Data        ReceiptDataResponse   `json:"data"`
	Transaction ReceiptTransactionRef `json:"transaction"`
}
