package extraction

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// TesseractOCR rasterises a page with pdftoppm and reads it with tesseract.
// Both binaries must be on PATH.
type TesseractOCR struct {
	Language string
	DPI      int
}

var _ PageOCR = &TesseractOCR{}

func NewTesseractOCR(language string) *TesseractOCR {
	if language == "" {
		language = "eng"
	}
	return &TesseractOCR{Language: language, DPI: 300}
}

// Available reports whether the OCR toolchain is installed.
func (t *TesseractOCR) Available() bool {
	for _, bin := range []string{"pdftoppm", "tesseract"} {
		if _, err := exec.LookPath(bin); err != nil {
			return false
		}
	}
	return true
}

func (t *TesseractOCR) OCRPage(ctx context.Context, data []byte, page int) (string, error) {
	dir, err := os.MkdirTemp("", "pdf-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	pdfPath := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write temp pdf: %w", err)
	}

	prefix := filepath.Join(dir, "page")
	pageArg := strconv.Itoa(page)
	render := exec.CommandContext(ctx, "pdftoppm",
		"-f", pageArg, "-l", pageArg,
		"-r", strconv.Itoa(t.DPI),
		"-png", "-singlefile",
		pdfPath, prefix)
	if out, err := render.CombinedOutput(); err != nil {
		return "", fmt.Errorf("pdftoppm: %w: %s", err, bytes.TrimSpace(out))
	}

	var stdout, stderr bytes.Buffer
	ocr := exec.CommandContext(ctx, "tesseract", prefix+".png", "stdout", "-l", t.Language)
	ocr.Stdout = &stdout
	ocr.Stderr = &stderr
	if err := ocr.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.String(), nil
}
