package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-pdfstudy-be/pkg/document"

	"github.com/ledongthuc/pdf"
)

var ErrEmptyDocument = errors.New("pdf document is empty")

// Extractor turns raw PDF bytes into ordered page text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (document.Text, error)
}

// PageOCR recognises the text of a single rendered page.
type PageOCR interface {
	OCRPage(ctx context.Context, data []byte, page int) (string, error)
}

// PDFExtractor reads the text layer of every page. Pages without a text layer
// are handed to the OCR fallback when one is configured; otherwise they stay
// empty so page numbering is preserved.
type PDFExtractor struct {
	ocr PageOCR
}

var _ Extractor = &PDFExtractor{}

func NewPDFExtractor(ocr PageOCR) *PDFExtractor {
	return &PDFExtractor{ocr: ocr}
}

func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (document.Text, error) {
	if len(data) == 0 {
		return document.Text{}, ErrEmptyDocument
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return document.Text{}, fmt.Errorf("open pdf: %w", err)
	}

	n := reader.NumPage()
	texts := make([]string, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return document.Text{}, err
		}

		text := e.pageText(reader, i)
		if text == "" && e.ocr != nil {
			ocrText, err := e.ocr.OCRPage(ctx, data, i)
			if err != nil {
				return document.Text{}, fmt.Errorf("ocr page %d: %w", i, err)
			}
			text = strings.TrimSpace(ocrText)
		}
		texts[i-1] = text
	}
	return document.NewText(texts), nil
}

func (e *PDFExtractor) pageText(reader *pdf.Reader, number int) string {
	page := reader.Page(number)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
