package extractor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewTextSource(t *testing.T) {
	testCases := []struct {
		backend  Backend
		expected TextSource
		wantErr  bool
	}{
		{BackendDocconv, DocconvSource{}, false},
		{"", DocconvSource{}, false},
		{BackendPDF, PDFSource{}, false},
		{BackendPlain, PlainSource{}, false},
		{"tesseract", nil, true},
	}

	for _, tc := range testCases {
		t.Run(string(tc.backend), func(t *testing.T) {
			source, err := NewTextSource(tc.backend)
			if (err != nil) != tc.wantErr {
				t.Fatalf("NewTextSource(%q) error = %v, wantErr %v", tc.backend, err, tc.wantErr)
			}

			if source != tc.expected {
				t.Errorf("Expected %T, got %T", tc.expected, source)
			}
		})
	}
}

func TestPlainSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.txt")

	if err := os.WriteFile(path, []byte("see http://example.com/x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := PlainSource{}.ExtractText(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}

	if text != "see http://example.com/x\n" {
		t.Errorf("Unexpected text %q", text)
	}
}

func TestPlainSourceEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.txt")
	if err := os.WriteFile(path, []byte(" \n\t\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := (PlainSource{}).ExtractText(context.Background(), path); !errors.Is(err, ErrNoText) {
		t.Errorf("Expected ErrNoText, got %v", err)
	}
}

func TestSourcesFailOnMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.pdf")

	for _, source := range []TextSource{PlainSource{}, PDFSource{}} {
		if _, err := source.ExtractText(context.Background(), missing); err == nil {
			t.Errorf("%T: expected error for missing file", source)
		}
	}
}

func TestSourcesHonorCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, source := range []TextSource{DocconvSource{}, PDFSource{}, PlainSource{}} {
		if _, err := source.ExtractText(ctx, "paper.pdf"); !errors.Is(err, context.Canceled) {
			t.Errorf("%T: expected context.Canceled, got %v", source, err)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		nfkc     bool
		expected string
	}{
		{"crlf", "a\r\nb\r\n", false, "a\nb\n"},
		{"lone cr kept", "a\rb", false, "a\rb"},
		{"ligature kept without nfkc", "ﬁle", false, "ﬁle"},
		{"ligature folded", "https://x.org/ﬁle", true, "https://x.org/file"},
		{"fullwidth folded", "ｈｔｔｐ", true, "http"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeText(tc.input, tc.nfkc); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}
