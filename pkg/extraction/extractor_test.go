package extraction

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOCR struct {
	calls []int
}

func (f *fakeOCR) OCRPage(_ context.Context, _ []byte, page int) (string, error) {
	f.calls = append(f.calls, page)
	return "  scanned text  ", nil
}

// buildPDF renders one page per entry; an empty entry produces a page with no text layer.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, text := range pages {
		doc.AddPage()
		if text != "" {
			doc.Cell(40, 10, text)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestPageCount(t *testing.T) {
	n, err := PageCount(buildPDF(t, "one", "two", "three"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestPageCountRejectsGarbage(t *testing.T) {
	_, err := PageCount([]byte("definitely not a pdf"))
	assert.Error(t, err)

	_, err = PageCount(nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestExtractKeepsPageOrder(t *testing.T) {
	data := buildPDF(t, "Photosynthesis", "Respiration")

	text, err := NewPDFExtractor(nil).Extract(context.Background(), data)
	require.NoError(t, err)

	require.Equal(t, 2, text.PageCount())
	assert.Contains(t, text.Pages[0].Text, "Photosynthesis")
	assert.Contains(t, text.Pages[1].Text, "Respiration")
	assert.Equal(t, 2, text.Pages[1].Number)
}

func TestExtractFallsBackToOCRForBlankPages(t *testing.T) {
	data := buildPDF(t, "Mitochondria", "")
	ocr := &fakeOCR{}

	text, err := NewPDFExtractor(ocr).Extract(context.Background(), data)
	require.NoError(t, err)

	require.Equal(t, 2, text.PageCount())
	assert.Equal(t, []int{2}, ocr.calls)
	assert.Equal(t, "scanned text", text.Pages[1].Text)
}

func TestExtractEmptyInput(t *testing.T) {
	_, err := NewPDFExtractor(nil).Extract(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}
