package rules

import (
	"fmt"
	"regexp"
	"strconv"
)

// negationWindow is how far back (in bytes) a matcher looks for language
// that negates a hit, e.g. "no penalty" or "fee waived".
const negationWindow = 50

var negationRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bno\s+`),
	regexp.MustCompile(`(?i)\bnot\s+`),
	regexp.MustCompile(`(?i)\bwithout\s+`),
	regexp.MustCompile(`(?i)\bwaived?\b`),
	regexp.MustCompile(`(?i)\bexempt\b`),
	regexp.MustCompile(`(?i)\bexcluded\b`),
	regexp.MustCompile(`(?i)\bcannot\b`),
	regexp.MustCompile(`(?i)\bprohibited\b`),
	regexp.MustCompile(`(?i)\bforbidden\b`),
	regexp.MustCompile(`(?i)\bunavailable\b`),
	regexp.MustCompile(`(?i)\binterest[-\s]free\b`),
	regexp.MustCompile(`(?i)\bfree\s+of\b`),
	regexp.MustCompile(`(?i)\bzero\b`),
}

// negatedAt reports whether the text immediately before pos negates a
// keyword hit at pos.
func negatedAt(text string, pos int) bool {
	start := pos - negationWindow
	if start < 0 {
		start = 0
	}
	window := text[start:pos]
	for _, re := range negationRes {
		if re.MatchString(window) {
			return true
		}
	}
	return false
}

// keywordMatcher fires when any of its patterns occurs outside a negating
// context. Patterns are tried in order; the first hit wins.
type keywordMatcher struct {
	patterns []*regexp.Regexp
}

// NewKeywordMatcher compiles the given case-insensitive patterns.
func NewKeywordMatcher(patterns ...string) (Matcher, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("keyword matcher needs at least one pattern")
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &keywordMatcher{patterns: compiled}, nil
}

// MustKeywordMatcher is NewKeywordMatcher for the compiled-in catalog,
// where a bad pattern is a programming error.
func MustKeywordMatcher(patterns ...string) Matcher {
	m, err := NewKeywordMatcher(patterns...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *keywordMatcher) Match(text string) (Match, bool) {
	for _, re := range m.patterns {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if negatedAt(text, loc[0]) {
			continue
		}
		return Match{Span: Span{Start: loc[0], End: loc[1]}}, true
	}
	return Match{}, false
}

// percentRe extracts percentage tokens like "24.99%".
var percentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

// rateThresholdMatcher is the one numeric rule family. A keyword hit with a
// percentage above the threshold fires at the rule's full severity, with the
// percentage and threshold exported as tokens. A keyword hit with no such
// percentage still fires, downgraded to Medium, so rate language never
// passes unflagged just because the number is modest or missing.
type rateThresholdMatcher struct {
	keywords  Matcher
	threshold float64
}

const rateReviewExplanation = "This clause sets out interest terms without a rate above the flagged threshold. Review the specific rate and conditions to understand the total cost of borrowing."

// NewRateThresholdMatcher builds a numeric-threshold matcher over the given
// keyword patterns.
func NewRateThresholdMatcher(threshold float64, patterns ...string) (Matcher, error) {
	kw, err := NewKeywordMatcher(patterns...)
	if err != nil {
		return nil, err
	}
	return &rateThresholdMatcher{keywords: kw, threshold: threshold}, nil
}

// MustRateThresholdMatcher is NewRateThresholdMatcher for the compiled-in
// catalog.
func MustRateThresholdMatcher(threshold float64, patterns ...string) Matcher {
	m, err := NewRateThresholdMatcher(threshold, patterns...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *rateThresholdMatcher) Match(text string) (Match, bool) {
	kw, ok := m.keywords.Match(text)
	if !ok {
		return Match{}, false
	}

	for _, idx := range percentRe.FindAllStringSubmatchIndex(text, -1) {
		token := text[idx[2]:idx[3]]
		value, err := strconv.ParseFloat(token, 64)
		if err != nil {
			// Malformed numeric token: treat as a non-match for this
			// token rather than failing the whole rule.
			continue
		}
		if value > m.threshold {
			return Match{
				Span: Span{Start: idx[0], End: idx[1]},
				Tokens: map[string]string{
					"rate":      token,
					"threshold": strconv.FormatFloat(m.threshold, 'f', -1, 64),
				},
			}, true
		}
	}

	sev := SeverityMedium
	return Match{
		Span:        kw.Span,
		Severity:    &sev,
		Explanation: rateReviewExplanation,
	}, true
}
