package service

import (
	"context"
	"fmt"
	"strings"

	"fintrack/pkg/config"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// receiptPrompt is the fixed template sent with every extraction request.
// The model is asked for a single JSON object matching the ReceiptData shape.
const receiptPrompt = `Analyze this receipt and extract transaction information with high accuracy.

Instructions:
- Extract the TOTAL amount (not individual items), convert to a number without currency symbols
- Extract the transaction date and convert to YYYY-MM-DD format
- Identify the merchant/business name clearly
- Categorize as one of: Food, Transportation, Shopping, Bills, Healthcare, Entertainment, Travel, Education, Other
- Determine if this is "income" or "expense" (receipts are typically expenses)
- Provide a brief description of what was purchased/transaction purpose
- Rate your confidence in extraction accuracy from 0.0 to 1.0

Focus on accuracy over speed. If information is unclear, indicate lower confidence.

Return ONLY a valid JSON object with this exact structure:
{
  "amount": number,
  "date": "YYYY-MM-DD",
  "merchant": "string",
  "category": "string",
  "type": "expense",
  "description": "string",
  "confidence": number
}`

// ReceiptExtractor sends a receipt to a generative model configured for
// JSON-only output and returns the raw response body. One call, one result:
// implementations never retry on malformed output.
type ReceiptExtractor interface {
	ExtractFromText(ctx context.Context, text string) ([]byte, error)
	ExtractFromImage(ctx context.Context, data []byte, mimeType string) ([]byte, error)
}

// GeminiExtractor implements ReceiptExtractor on the Gemini API. Every call
// runs under the configured timeout.
type GeminiExtractor struct {
	client *genai.Client
	cfg    *config.GeminiConfig
	logger *zap.Logger
}

// NewGeminiExtractor creates the extractor. A missing API key is not a boot
// failure: the rest of the service keeps working and extraction requests
// report the missing credential.
func NewGeminiExtractor(ctx context.Context, cfg *config.GeminiConfig, logger *zap.Logger) (*GeminiExtractor, error) {
	e := &GeminiExtractor{
		cfg:    cfg,
		logger: logger,
	}

	if cfg.APIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set, receipt extraction is disabled")
		return e, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	e.client = client

	return e, nil
}

func (e *GeminiExtractor) ExtractFromText(ctx context.Context, text string) ([]byte, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: receiptPrompt + "\n\nReceipt text:\n" + text},
			},
		},
	}

	return e.generate(ctx, contents)
}

func (e *GeminiExtractor) ExtractFromImage(ctx context.Context, data []byte, mimeType string) ([]byte, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: receiptPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     data,
					},
				},
			},
		},
	}

	return e.generate(ctx, contents)
}

func (e *GeminiExtractor) generate(ctx context.Context, contents []*genai.Content) ([]byte, error) {
	if e.client == nil {
		return nil, &ModelError{Err: ErrMissingAPIKey}
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	resp, err := e.client.Models.GenerateContent(ctx, e.cfg.Model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.2),
	})
	if err != nil {
		return nil, &ModelError{Err: fmt.Errorf("generate content: %w", err)}
	}

	raw := resp.Text()
	if raw == "" {
		return nil, &ModelError{Err: fmt.Errorf("empty response from model")}
	}

	e.logger.Debug("Model response received", zap.Int("length", len(raw)))

	return []byte(cleanModelJSON(raw)), nil
}

// cleanModelJSON strips Markdown fences and surrounding prose in case the
// model ignored the JSON-only instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}

	return strings.TrimSpace(s)
}
