package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDFText returns the embedded text of a PDF byte stream. Corrupt or
// encrypted documents, and documents with no extractable text, fail with a
// *DocumentError; there is no vision fallback for PDFs.
func extractPDFText(data []byte) (text string, err error) {
	defer func() {
		// the pdf package panics on some malformed cross-reference tables
		if r := recover(); r != nil {
			text = ""
			err = &DocumentError{Err: fmt.Errorf("malformed PDF: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &DocumentError{Err: err}
	}

	var builder strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &DocumentError{Err: fmt.Errorf("page %d: %w", pageIndex, err)}
		}

		builder.WriteString(pageText)
		builder.WriteString("\n")
	}

	text = strings.TrimSpace(builder.String())
	if text == "" {
		return "", &DocumentError{Err: fmt.Errorf("no text found in PDF")}
	}

	return text, nil
}
