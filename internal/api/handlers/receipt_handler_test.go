package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const receiptJSON = `{
	"amount": 42.50,
	"date": "2024-03-15",
	"merchant": "Acme Store",
	"category": "Shopping",
	"type": "expense",
	"confidence": 0.95
}`

type stubStore struct {
	created []*models.Transaction
}

func (s *stubStore) Create(ctx context.Context, tx *models.Transaction) error {
	s.created = append(s.created, tx)
	return nil
}

func (s *stubStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	return nil, repository.ErrNotFound
}

func (s *stubStore) Update(ctx context.Context, userID, id uuid.UUID, fields map[string]interface{}) (*models.Transaction, error) {
	return nil, repository.ErrNotFound
}

func (s *stubStore) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *stubStore) List(ctx context.Context, userID uuid.UUID, filter repository.TransactionFilter) ([]*models.Transaction, int64, error) {
	return nil, 0, nil
}

func (s *stubStore) ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.Transaction, error) {
	return nil, nil
}

func (s *stubStore) SumByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time, txType models.TransactionType) ([]repository.CategorySum, error) {
	return nil, nil
}

func (s *stubStore) ListCategories(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]string, error) {
	return nil, nil
}

type stubExtractor struct {
	response []byte
	err      error
}

func (e *stubExtractor) ExtractFromText(ctx context.Context, text string) ([]byte, error) {
	return e.response, e.err
}

func (e *stubExtractor) ExtractFromImage(ctx context.Context, data []byte, mimeType string) ([]byte, error) {
	return e.response, e.err
}

func newReceiptApp(store service.TransactionStore, extractor service.ReceiptExtractor) *fiber.App {
	svc := service.NewReceiptService(store, extractor, zap.NewNop())
	handler := NewReceiptHandler(svc, zap.NewNop())

	app := fiber.New()
	app.Post("/api/v1/receipts/process", func(c *fiber.Ctx) error {
		c.Locals("userID", uuid.New().String())
		return handler.Process(c)
	})
	return app
}

func uploadRequest(t *testing.T, contentType string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="file"; filename="receipt"`},
		"Content-Type":        {contentType},
	})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/process", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	return body
}

func TestReceiptProcessNoFile(t *testing.T) {
	app := newReceiptApp(&stubStore{}, &stubExtractor{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/process", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["error"] != "No file provided" {
		t.Errorf("error = %q, want %q", body["error"], "No file provided")
	}
}

func TestReceiptProcessUnsupportedType(t *testing.T) {
	store := &stubStore{}
	app := newReceiptApp(store, &stubExtractor{})

	resp, err := app.Test(uploadRequest(t, "text/plain", []byte("plain text")))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["error"] != "File must be a PDF or image" {
		t.Errorf("error = %q, want %q", body["error"], "File must be a PDF or image")
	}
	if len(store.created) != 0 {
		t.Error("no transaction should be saved")
	}
}

func TestReceiptProcessModelGarbage(t *testing.T) {
	store := &stubStore{}
	app := newReceiptApp(store, &stubExtractor{response: []byte("not json")})

	resp, err := app.Test(uploadRequest(t, "image/png", []byte{0x89, 'P', 'N', 'G'}))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["error"] != "AI processing failed" {
		t.Errorf("error = %q, want %q", body["error"], "AI processing failed")
	}
	if body["details"] == nil || body["details"] == "" {
		t.Error("response should include details")
	}
	if len(store.created) != 0 {
		t.Error("no transaction should be saved")
	}
}

func TestReceiptProcessMissingCredential(t *testing.T) {
	store := &stubStore{}
	app := newReceiptApp(store, &stubExtractor{err: &service.ModelError{Err: service.ErrMissingAPIKey}})

	resp, err := app.Test(uploadRequest(t, "image/jpeg", []byte("img")))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["error"] != "AI processing failed" {
		t.Errorf("error = %q, want %q", body["error"], "AI processing failed")
	}
}

func TestReceiptProcessSuccess(t *testing.T) {
	store := &stubStore{}
	app := newReceiptApp(store, &stubExtractor{response: []byte(receiptJSON)})

	resp, err := app.Test(uploadRequest(t, "image/png", []byte{0x89, 'P', 'N', 'G'}))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}

	if len(store.created) != 1 {
		t.Fatalf("saved transactions = %d, want 1", len(store.created))
	}
	if store.created[0].Amount != 42.50 {
		t.Errorf("saved Amount = %v, want 42.50", store.created[0].Amount)
	}

	tx, ok := body["transaction"].(map[string]interface{})
	if !ok {
		t.Fatalf("transaction = %v, want an object", body["transaction"])
	}
	if tx["id"] != store.created[0].ID.String() {
		t.Errorf("transaction id = %v, want %v", tx["id"], store.created[0].ID)
	}
}
