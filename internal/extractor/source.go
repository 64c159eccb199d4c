package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"code.sajari.com/docconv/v2"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// ErrNoText is returned when a document yields no readable text.
var ErrNoText = errors.New("no readable text found in document")

// TextSource turns a document on disk into plain text.
type TextSource interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// NewTextSource returns the text source implementing backend.
func NewTextSource(backend Backend) (TextSource, error) {
	switch backend {
	case BackendDocconv, "":
		return DocconvSource{}, nil
	case BackendPDF:
		return PDFSource{}, nil
	case BackendPlain:
		return PlainSource{}, nil
	default:
		return nil, fmt.Errorf("unsupported text backend: %q", backend)
	}
}

// DocconvSource converts documents with docconv, which shells out to pdftotext
// for PDFs and understands several other office formats.
type DocconvSource struct{}

// ExtractText implements TextSource.
func (DocconvSource) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	response, err := docconv.ConvertPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to convert file '%s': %w", path, err)
	}

	return requireText(response.Body)
}

// PDFSource reads the text layer of a PDF in pure Go.
type PDFSource struct{}

// ExtractText implements TextSource.
func (PDFSource) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open PDF '%s': %w", path, err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("read PDF text: %w", err)
	}

	return requireText(buf.String())
}

// PlainSource reads text that was converted ahead of time.
type PlainSource struct{}

// ExtractText implements TextSource.
func (PlainSource) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file '%s': %w", path, err)
	}

	return requireText(string(data))
}

func requireText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}

	return text, nil
}

// NormalizeText converts CRLF line endings to LF and, when nfkc is set, applies
// Unicode NFKC so that typographic ligatures become plain letters again.
func NormalizeText(text string, nfkc bool) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	if nfkc {
		text = norm.NFKC.String(text)
	}

	return text
}
