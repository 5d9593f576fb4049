package pdfgen

import (
	"bytes"
	"fmt"

	"ai-pdfstudy-be/pkg/document"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily = "Helvetica"
	fontSize   = 10
	lineHeight = 5
	groupGap   = 5
)

// RenderQuiz lays out each labeled question block on A4 pages, breaking pages
// automatically, and returns the encoded PDF.
func RenderQuiz(blocks []document.LabeledText) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()
	doc.SetFont(fontFamily, "", fontSize)

	tr := doc.UnicodeTranslatorFromDescriptor("")
	for _, b := range blocks {
		doc.MultiCell(0, lineHeight, tr(b.Label+"\n"+b.Text), "", "L", false)
		doc.Ln(groupGap)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render quiz pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// QuizFileName is the attachment name for questions generated from file.
func QuizFileName(file string) string {
	return baseName(file) + "-generatedQuestions.pdf"
}

func baseName(file string) string {
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '.' {
			return file[:i]
		}
	}
	return file
}
