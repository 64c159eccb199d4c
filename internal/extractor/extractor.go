package extractor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// URLExtractor recovers artifact URLs from the flattened text of a document.
type URLExtractor struct {
	seeds         SeedMatcher
	validator     Validator
	canonicalizer *Canonicalizer
	source        TextSource
	options       ExtractionOptions
}

// NewURLExtractor creates an extractor using the liberal URL grammar and the
// text backend named in options.
func NewURLExtractor(options ExtractionOptions) (*URLExtractor, error) {
	source, err := NewTextSource(options.Backend)
	if err != nil {
		return nil, err
	}

	grammar := NewLiberalGrammar()

	return &URLExtractor{
		seeds:         grammar,
		validator:     grammar,
		canonicalizer: NewCanonicalizer(grammar, nil),
		source:        source,
		options:       options,
	}, nil
}

// SetGrammar replaces the seed matcher and validator.
func (e *URLExtractor) SetGrammar(seeds SeedMatcher, validator Validator) {
	e.seeds = seeds
	e.validator = validator
	e.canonicalizer = NewCanonicalizer(validator, e.canonicalizer.rules)
}

// SetTextSource replaces the document-to-text backend.
func (e *URLExtractor) SetTextSource(source TextSource) {
	e.source = source
}

// Options returns the options the extractor was built with.
func (e *URLExtractor) Options() ExtractionOptions {
	return e.options
}

// ReadText extracts and normalizes the text of a document. Failures are fatal
// for the document.
func (e *URLExtractor) ReadText(ctx context.Context, filename string) (string, error) {
	text, err := e.source.ExtractText(ctx, filename)
	if err != nil {
		return "", err
	}

	return NormalizeText(text, e.options.NormalizeUnicode), nil
}

// ExtractFromFile extracts URLs from a document on disk.
func (e *URLExtractor) ExtractFromFile(ctx context.Context, filename string) (*ExtractionResult, error) {
	startTime := time.Now()

	text, err := e.ReadText(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %s: %w", filename, err)
	}

	result := e.ExtractFromText(text)
	result.Filename = filename
	result.ProcessTime = time.Since(startTime)

	log.Debug().
		Str("file", filename).
		Int("seeds", result.Summary.Seeds).
		Int("urls", result.Summary.UniqueURLs).
		Dur("elapsed", result.ProcessTime).
		Msg("extracted urls")

	return result, nil
}

// ExtractFromText runs the full pipeline over already extracted text. Each
// seed is processed independently, so the result does not depend on the
// order in which seeds are visited.
func (e *URLExtractor) ExtractFromText(text string) *ExtractionResult {
	set := make(ResultSet)
	stats := ExtractionStats{}

	seeds := e.seeds.FindSeeds(text)
	stats.Seeds = len(seeds)

	for _, seed := range seeds {
		for _, trace := range e.traceSeed(text, seed) {
			stats.Occurrences++

			switch trace.Outcome {
			case OutcomeAccepted:
				stats.Accepted++
				set.Add(trace.Canonical.URL)
			case OutcomeBlocklisted:
				stats.Blocklisted++
			default:
				stats.Rejected++
			}
		}
	}

	stats.UniqueURLs = len(set)

	return &ExtractionResult{
		TotalText: len(text),
		URLs:      set.Sorted(),
		Summary:   stats,
	}
}

// Outcome classifies what became of one seed occurrence.
type Outcome string

const (
	OutcomeAccepted    Outcome = "accepted"
	OutcomeNoValidURL  Outcome = "no-valid-url"
	OutcomeBlocklisted Outcome = "blocklisted"
)

// OccurrenceTrace follows one physical occurrence of a seed through the pipeline.
type OccurrenceTrace struct {
	Seed        string         `json:"seed"`
	Occurrence  Span           `json:"occurrence"`
	Maximal     Span           `json:"maximal"`
	MaximalText string         `json:"maximal_text"`
	Canonical   CanonicalTrace `json:"canonical"`
	Outcome     Outcome        `json:"outcome"`
	BlockedBy   string         `json:"blocked_by,omitempty"`
}

// Trace returns the per-occurrence record for every seed in text.
func (e *URLExtractor) Trace(text string) []OccurrenceTrace {
	var traces []OccurrenceTrace

	for _, seed := range e.seeds.FindSeeds(text) {
		traces = append(traces, e.traceSeed(text, seed)...)
	}

	return traces
}

func (e *URLExtractor) traceSeed(text, seed string) []OccurrenceTrace {
	occurrences := LocateOccurrences(text, seed)
	traces := make([]OccurrenceTrace, 0, len(occurrences))

	for _, occurrence := range occurrences {
		maximal := ExpandSpan(text, occurrence, e.options.CrossBlankLines)
		trace := OccurrenceTrace{
			Seed:        seed,
			Occurrence:  occurrence,
			Maximal:     maximal,
			MaximalText: maximal.Text(text),
		}

		trace.Canonical = e.canonicalizer.Trace(trace.MaximalText)

		switch {
		case !trace.Canonical.Found || !e.validator.IsWellFormed(trace.Canonical.URL):
			trace.Outcome = OutcomeNoValidURL
		default:
			if term, blocked := e.options.Blocklist.Match(trace.Canonical.URL); blocked {
				trace.Outcome = OutcomeBlocklisted
				trace.BlockedBy = term

				log.Debug().Str("url", trace.Canonical.URL).Str("term", term).Msg("blocklisted")
			} else {
				trace.Outcome = OutcomeAccepted
			}
		}

		traces = append(traces, trace)
	}

	return traces
}
