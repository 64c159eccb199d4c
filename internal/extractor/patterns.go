package extractor

import (
	"regexp"
	"strings"
)

// SeedMatcher finds the distinct substrings of a text that coarsely look like URLs.
type SeedMatcher interface {
	FindSeeds(text string) []string
}

// Validator decides whether a candidate string is a structurally valid URL.
type Validator interface {
	IsWellFormed(candidate string) bool
}

// space is every character unicode.IsSpace accepts. Go's \s alone is ASCII
// only and would let a URL run through a non-breaking space.
const space = `\s\v\x{85}\p{Z}`

// urlBody is a liberal URL tail in the style of John Gruber's pattern: balanced
// parentheses are allowed inside, and the last character may not be prose
// punctuation.
const urlBody = `(?:[^` + space + `()<>{}\[\]]+|\([^` + space + `()]*?\([^` + space + `()]+\)[^` + space + `()]*?\)|\([^` + space + `]+?\))+` +
	`(?:\([^` + space + `()]*?\([^` + space + `()]+\)[^` + space + `()]*?\)|\([^` + space + `]+?\)|[^` + space + "`" + `!()\[\]{};:'".,<>?«»“”‘’])`

const urlHead = `(?:https?:(?:/{1,3}|[a-z0-9%])|www\d{0,3}[.]|[a-z0-9.\-]+[.](?:com|net|org|edu|gov|io|de|uk|fr|nl|ch|eu|info|dev)/)`

// LiberalGrammar implements both SeedMatcher and Validator with one permissive
// URL grammar. Seeds may be scheme-less; validation requires an http prefix.
type LiberalGrammar struct {
	seed   *regexp.Regexp
	prefix *regexp.Regexp
}

// NewLiberalGrammar compiles the default URL grammar.
func NewLiberalGrammar() *LiberalGrammar {
	return &LiberalGrammar{
		seed:   regexp.MustCompile(`(?i)\b` + urlHead + urlBody),
		prefix: regexp.MustCompile(`(?i)^` + urlHead + urlBody),
	}
}

// FindSeeds returns every distinct match in order of first appearance.
func (g *LiberalGrammar) FindSeeds(text string) []string {
	matches := g.seed.FindAllString(text, -1)
	seen := make(map[string]bool, len(matches))
	seeds := make([]string, 0, len(matches))

	for _, m := range matches {
		if seen[m] {
			continue
		}

		seen[m] = true
		seeds = append(seeds, m)
	}

	return seeds
}

// IsWellFormed reports whether candidate starts with "http" and the grammar
// matches at its beginning. Trailing garbage after a valid prefix is tolerated;
// the canonicalizer is responsible for choosing the extent.
func (g *LiberalGrammar) IsWellFormed(candidate string) bool {
	return strings.HasPrefix(candidate, "http") && g.prefix.MatchString(candidate)
}

var citationMarkerRegex = regexp.MustCompile(`^\[\d+\]`)
