package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
)

// ReceiptData is the contract between the extraction client and the rest of
// the pipeline: one receipt, already validated. Merchant and Confidence are
// display-only and are not persisted.
type ReceiptData struct {
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Merchant    string  `json:"merchant"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Confidence  float64 `json:"confidence"`

	parsedDate time.Time
}

// ParseReceiptData turns a raw model response into a validated ReceiptData.
// A syntactically invalid body yields a *ModelError; a valid JSON object that
// violates the field rules yields a *SchemaError naming every offending field.
func ParseReceiptData(raw []byte) (*ReceiptData, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, &ModelError{Err: fmt.Errorf("model returned invalid JSON: %w", err)}
	}

	var bad []string

	data := &ReceiptData{}

	if amount, ok := numberField(obj, "amount"); ok && amount > 0 {
		data.Amount = amount
	} else {
		bad = append(bad, "amount")
	}

	if date, ok := stringField(obj, "date"); ok {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			bad = append(bad, "date")
		} else {
			data.Date = date
			data.parsedDate = parsed
		}
	} else {
		bad = append(bad, "date")
	}

	if merchant, ok := stringField(obj, "merchant"); ok && strings.TrimSpace(merchant) != "" {
		data.Merchant = merchant
	} else {
		bad = append(bad, "merchant")
	}

	if category, ok := stringField(obj, "category"); ok && strings.TrimSpace(category) != "" {
		data.Category = category
	} else {
		bad = append(bad, "category")
	}

	if txType, ok := stringField(obj, "type"); ok && models.ValidTransactionType(txType) {
		data.Type = txType
	} else {
		bad = append(bad, "type")
	}

	if desc, present := obj["description"]; present && desc != nil {
		if s, ok := desc.(string); ok {
			data.Description = s
		} else {
			bad = append(bad, "description")
		}
	}

	if confidence, ok := numberField(obj, "confidence"); ok && confidence >= 0 && confidence <= 1 {
		data.Confidence = confidence
	} else {
		bad = append(bad, "confidence")
	}

	if len(bad) > 0 {
		return nil, &SchemaError{Fields: bad}
	}

	return data, nil
}

// Transaction projects the validated receipt into a new transaction owned by
// userID. The mapping is total: every ReceiptData produced by
// ParseReceiptData maps without error. Merchant and Confidence are dropped.
func (d *ReceiptData) Transaction(userID uuid.UUID, now time.Time) *models.Transaction {
	return &models.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        models.TransactionType(d.Type),
		Category:    d.Category,
		Amount:      d.Amount,
		Description: sanitizeUTF8(d.Description),
		Date:        d.parsedDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func numberField(m map[string]interface{}, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func stringField(m map[string]interface{}, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
