package extractor

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LocateOccurrences returns every non-overlapping verbatim occurrence of seed
// in text, left to right. The seed is never interpreted as a pattern.
func LocateOccurrences(text, seed string) []Span {
	if seed == "" {
		return nil
	}

	var spans []Span

	offset := 0
	for {
		idx := strings.Index(text[offset:], seed)
		if idx < 0 {
			break
		}

		start := offset + idx
		spans = append(spans, Span{Start: start, End: start + len(seed)})
		offset = start + len(seed)
	}

	return spans
}

// ExpandSpan grows the end of span over the physical layout of the text:
// non-whitespace runes are absorbed, a line break is stepped over and the scan
// continues on the next line, any other whitespace (or the end of the text)
// stops it. Unless crossBlankLines is set, an empty line ends the expansion so
// that URL-like strings in separate paragraphs are never merged.
func ExpandSpan(text string, span Span, crossBlankLines bool) Span {
	end := span.End

	for {
		for end < len(text) {
			r, size := utf8.DecodeRuneInString(text[end:])
			if unicode.IsSpace(r) {
				break
			}

			end += size
		}

		if end >= len(text) || text[end] != '\n' {
			return Span{Start: span.Start, End: end}
		}

		if !crossBlankLines && end+1 < len(text) && text[end+1] == '\n' {
			return Span{Start: span.Start, End: end}
		}

		end++
	}
}
