package ner

import (
	"strings"
	"unicode"
)

// Matcher applies a pattern table to free text and returns tagged spans.
// Matching is case-insensitive, deterministic, and independent of pattern
// registration order except that longer matches win at the same position.
// A Matcher is immutable after construction and safe for concurrent use.
type Matcher struct {
	patterns []Pattern
	maxLen   int
}

// NewMatcher creates a matcher over the given pattern table.
// The fixed patterns are not added implicitly; callers compose the table
// from FixedPatterns() and the lexicon builder output.
func NewMatcher(patterns []Pattern) *Matcher {
	maxLen := 0
	for _, p := range patterns {
		if len(p.Tokens) > maxLen {
			maxLen = len(p.Tokens)
		}
	}
	return &Matcher{patterns: patterns, maxLen: maxLen}
}

// token is a single word of the input with its original surface preserved.
type token struct {
	surface string
	lower   string
	isNum   bool
}

// Match tokenizes text and returns all entity occurrences in input order.
// Overlaps are resolved longest-match-first: at each position the longest
// matching pattern wins and its tokens are consumed. No match is never an
// error; the result is simply empty.
func (m *Matcher) Match(text string) []Span {
	tokens := tokenize(text)
	spans := []Span{}

	for i := 0; i < len(tokens); {
		best := 0
		var bestPattern *Pattern
		for pi := range m.patterns {
			p := &m.patterns[pi]
			if len(p.Tokens) <= best {
				continue
			}
			if m.matchesAt(tokens, i, p) {
				best = len(p.Tokens)
				bestPattern = p
			}
		}
		if bestPattern == nil {
			i++
			continue
		}

		surfaces := make([]string, best)
		for j := 0; j < best; j++ {
			surfaces[j] = tokens[i+j].surface
		}
		matched := strings.Join(surfaces, " ")

		lemma := bestPattern.Lemma
		if lemma == "" {
			lemma = strings.ToLower(matched)
		}
		spans = append(spans, Span{Text: matched, Label: bestPattern.Label, Lemma: lemma})
		i += best
	}

	return spans
}

// matchesAt reports whether pattern p matches tokens starting at position i.
func (m *Matcher) matchesAt(tokens []token, i int, p *Pattern) bool {
	if i+len(p.Tokens) > len(tokens) {
		return false
	}
	for j, pred := range p.Tokens {
		tok := tokens[i+j]
		if pred.LikeNum {
			if !tok.isNum {
				return false
			}
			continue
		}
		if tok.lower != pred.Text {
			return false
		}
	}
	return true
}

// tokenize splits text into word tokens. Letter and digit runs form words;
// the star glyph is kept as its own token so "5★" style ratings survive;
// everything else separates.
func tokenize(text string) []token {
	var tokens []token
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		surface := current.String()
		tokens = append(tokens, token{
			surface: surface,
			lower:   strings.ToLower(surface),
			isNum:   isDigitRun(surface),
		})
		current.Reset()
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			current.WriteRune(r)
		case r == '★':
			flush()
			tokens = append(tokens, token{surface: "★", lower: "★"})
		default:
			flush()
		}
	}
	flush()

	return tokens
}

// isDigitRun reports whether s consists entirely of decimal digits.
func isDigitRun(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
