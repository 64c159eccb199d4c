package extractor

import (
	"time"
)

// Span is a half-open byte range [Start, End) into the document text.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Text returns the slice of text covered by the span.
func (s Span) Text(text string) string {
	return text[s.Start:s.End]
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// ExtractionResult contains the complete result of URL extraction for one document
type ExtractionResult struct {
	Filename    string          `json:"filename" yaml:"filename"`
	TotalText   int             `json:"total_text" yaml:"total_text"`
	URLs        []string        `json:"urls" yaml:"urls"`
	Summary     ExtractionStats `json:"summary" yaml:"summary"`
	ProcessTime time.Duration   `json:"process_time" yaml:"process_time"`
}

// ExtractionStats provides summary statistics for an extraction run.
// Occurrence-level counters count every physical occurrence of every seed.
type ExtractionStats struct {
	Seeds       int `json:"seeds" yaml:"seeds"`
	Occurrences int `json:"occurrences" yaml:"occurrences"`
	Accepted    int `json:"accepted" yaml:"accepted"`
	Rejected    int `json:"rejected" yaml:"rejected"`
	Blocklisted int `json:"blocklisted" yaml:"blocklisted"`
	UniqueURLs  int `json:"unique_urls" yaml:"unique_urls"`
}

// Backend names a text extraction implementation.
type Backend string

const (
	BackendDocconv Backend = "docconv"
	BackendPDF     Backend = "pdf"
	BackendPlain   Backend = "plain"
)

// ExtractionOptions configures the extraction process
type ExtractionOptions struct {
	Backend          Backend   `json:"backend"`
	Blocklist        Blocklist `json:"blocklist"`
	CrossBlankLines  bool      `json:"cross_blank_lines"`
	NormalizeUnicode bool      `json:"normalize_unicode"`
}

// DefaultExtractionOptions returns default extraction options
func DefaultExtractionOptions() ExtractionOptions {
	return ExtractionOptions{
		Backend:          BackendDocconv,
		Blocklist:        DefaultBlocklist(),
		CrossBlankLines:  false,
		NormalizeUnicode: false,
	}
}
