package extractor

import (
	"strings"
	"unicode"
)

// PartAction is the outcome of evaluating the part rules against one line.
type PartAction int

const (
	// PartAccept lets the line take part in candidate building.
	PartAccept PartAction = iota
	// PartSkip keeps the line in later concatenations but tests no candidate for it.
	PartSkip
	// PartStop ends the scan; the line and everything after it are discarded.
	PartStop
)

func (a PartAction) String() string {
	switch a {
	case PartAccept:
		return "accept"
	case PartSkip:
		return "skip"
	case PartStop:
		return "stop"
	default:
		return "unknown"
	}
}

// MarshalText renders the action by name in JSON traces.
func (a PartAction) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// PartRule classifies the line at index i of a maximal span.
type PartRule struct {
	Name  string
	Apply func(i int, part string) PartAction
}

// DefaultPartRules returns the rules in evaluation order. The first rule that
// does not accept decides the fate of the line.
func DefaultPartRules() []PartRule {
	return []PartRule{
		{Name: "new-url", Apply: startsNewURL},
		{Name: "citation-marker", Apply: startsWithCitationMarker},
		{Name: "folio", Apply: isFolio},
	}
}

// startsNewURL only recognizes the plain http scheme at the start of a later
// line. A line starting with https: is treated as a continuation.
func startsNewURL(i int, part string) PartAction {
	if i > 0 && strings.HasPrefix(part, "http:") {
		return PartStop
	}

	return PartAccept
}

func startsWithCitationMarker(_ int, part string) PartAction {
	if citationMarkerRegex.MatchString(part) {
		return PartStop
	}

	return PartAccept
}

// isFolio treats a line made only of digits as a page number left behind by a
// page break.
func isFolio(_ int, part string) PartAction {
	if part == "" {
		return PartAccept
	}

	for _, r := range part {
		if !unicode.IsDigit(r) {
			return PartAccept
		}
	}

	return PartSkip
}

// SplitParts splits a maximal span on line breaks and drops empty lines.
func SplitParts(maximal string) []string {
	lines := strings.Split(maximal, "\n")
	parts := make([]string, 0, len(lines))

	for _, line := range lines {
		if line != "" {
			parts = append(parts, line)
		}
	}

	return parts
}

// PartDecision records what happened to one line of a maximal span.
type PartDecision struct {
	Index     int        `json:"index"`
	Part      string     `json:"part"`
	Rule      string     `json:"rule,omitempty"`
	Action    PartAction `json:"action"`
	Candidate string     `json:"candidate,omitempty"`
	Valid     bool       `json:"valid"`
	Stripped  bool       `json:"stripped"`
}

// CanonicalTrace is the full record of one canonicalization.
type CanonicalTrace struct {
	Parts     []string       `json:"parts"`
	Decisions []PartDecision `json:"decisions"`
	URL       string         `json:"url,omitempty"`
	Found     bool           `json:"found"`
}

// Canonicalizer rebuilds the true URL from the lines of a maximal span.
type Canonicalizer struct {
	validator Validator
	rules     []PartRule
}

// NewCanonicalizer creates a canonicalizer. A nil rule slice selects DefaultPartRules.
func NewCanonicalizer(validator Validator, rules []PartRule) *Canonicalizer {
	if rules == nil {
		rules = DefaultPartRules()
	}

	return &Canonicalizer{
		validator: validator,
		rules:     rules,
	}
}

// Canonicalize returns the longest valid prefix concatenation of the span's
// lines, with a trailing period or comma removed when the shorter form is
// also valid. ok is false when no prefix validates.
func (c *Canonicalizer) Canonicalize(maximal string) (url string, ok bool) {
	trace := c.Trace(maximal)
	return trace.URL, trace.Found
}

// Trace canonicalizes maximal and records every per-line decision.
func (c *Canonicalizer) Trace(maximal string) CanonicalTrace {
	trace := CanonicalTrace{Parts: SplitParts(maximal)}

	var candidate strings.Builder

	for i, part := range trace.Parts {
		decision := PartDecision{Index: i, Part: part, Action: PartAccept}

		for _, rule := range c.rules {
			if action := rule.Apply(i, part); action != PartAccept {
				decision.Rule = rule.Name
				decision.Action = action

				break
			}
		}

		if decision.Action == PartStop {
			trace.Decisions = append(trace.Decisions, decision)
			break
		}

		candidate.WriteString(part)

		if decision.Action == PartSkip {
			trace.Decisions = append(trace.Decisions, decision)
			continue
		}

		current := candidate.String()
		decision.Candidate = current

		if c.validator.IsWellFormed(current) {
			decision.Valid = true
			trace.URL = current
			trace.Found = true
		}

		if last := current[len(current)-1]; last == '.' || last == ',' {
			if stripped := current[:len(current)-1]; c.validator.IsWellFormed(stripped) {
				decision.Stripped = true
				trace.URL = stripped
				trace.Found = true
			}
		}

		trace.Decisions = append(trace.Decisions, decision)
	}

	return trace
}
