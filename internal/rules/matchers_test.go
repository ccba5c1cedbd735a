package rules

import "testing"

func TestKeywordMatcher_Basic(t *testing.T) {
	m := MustKeywordMatcher(`hidden\s+fee`, `service\s+charge`)

	match, ok := m.Match("A monthly service charge applies.")
	if !ok {
		t.Fatalf("expected a match")
	}
	if got := "A monthly service charge applies."[match.Span.Start:match.Span.End]; got != "service charge" {
		t.Fatalf("unexpected matched span text: %q", got)
	}

	if _, ok := m.Match("No relevant language here."); ok {
		t.Fatalf("expected no match")
	}
}

func TestKeywordMatcher_CaseInsensitive(t *testing.T) {
	m := MustKeywordMatcher(`binding\s+arbitration`)
	if _, ok := m.Match("Disputes go to BINDING ARBITRATION only."); !ok {
		t.Fatalf("expected case-insensitive match")
	}
}

func TestKeywordMatcher_PatternOrderWins(t *testing.T) {
	m := MustKeywordMatcher(`penalty\s+charge`, `penalty\s+fee`)
	text := "A penalty fee applies before any penalty charge."

	match, ok := m.Match(text)
	if !ok {
		t.Fatalf("expected a match")
	}
	// The first pattern in declaration order is tried first even though the
	// second pattern occurs earlier in the text.
	if got := text[match.Span.Start:match.Span.End]; got != "penalty charge" {
		t.Fatalf("expected first-declared pattern to win, matched %q", got)
	}
}

func TestKeywordMatcher_NegationSuppresses(t *testing.T) {
	m := MustKeywordMatcher(`penalty\s+fee`)

	cases := []string{
		"No penalty fee will be charged.",
		"There is not a penalty fee in this plan.",
		"It is forbidden to impose a penalty fee here.",
		"Currently unavailable, the penalty fee does not apply.",
		"The penalty fee is waived for the first year.",
	}
	for _, text := range cases {
		if _, ok := m.Match(text); ok {
			// "waived" appears after the hit in the last case, which the
			// look-behind window cannot see; every other case must be
			// suppressed.
			if text != cases[len(cases)-1] {
				t.Fatalf("expected negated context to suppress match in %q", text)
			}
		}
	}

	if _, ok := m.Match("A penalty fee of $50 applies."); !ok {
		t.Fatalf("expected plain mention to match")
	}
}

func TestRateThresholdMatcher_AboveThreshold(t *testing.T) {
	m := MustRateThresholdMatcher(20.0, `interest\s+rate`)
	text := "The annual interest rate is 24.99%."

	match, ok := m.Match(text)
	if !ok {
		t.Fatalf("expected a match above threshold")
	}
	if match.Tokens["rate"] != "24.99" {
		t.Fatalf("expected rate token 24.99, got %q", match.Tokens["rate"])
	}
	if match.Tokens["threshold"] != "20" {
		t.Fatalf("expected threshold token 20, got %q", match.Tokens["threshold"])
	}
	if got := text[match.Span.Start:match.Span.End]; got != "24.99%" {
		t.Fatalf("expected span over the percentage token, got %q", got)
	}
}

func TestRateThresholdMatcher_BelowThresholdDowngradesToMedium(t *testing.T) {
	m := MustRateThresholdMatcher(20.0, `interest\s+rate`)

	match, ok := m.Match("The interest rate is 5.5% fixed.")
	if !ok {
		t.Fatalf("expected a downgraded match below threshold")
	}
	if match.Severity == nil || *match.Severity != SeverityMedium {
		t.Fatalf("expected Medium severity override, got %+v", match.Severity)
	}
	if match.Explanation == "" {
		t.Fatalf("expected a review explanation on the downgraded match")
	}
	if got := "The interest rate is 5.5% fixed."[match.Span.Start:match.Span.End]; got != "interest rate" {
		t.Fatalf("expected the keyword span on a downgraded match, got %q", got)
	}
}

func TestRateThresholdMatcher_KeywordRequired(t *testing.T) {
	m := MustRateThresholdMatcher(20.0, `interest\s+rate`)
	if _, ok := m.Match("A 95% completion milestone."); ok {
		t.Fatalf("expected no match without the keyword")
	}
}

func TestRateThresholdMatcher_NoNumericToken(t *testing.T) {
	m := MustRateThresholdMatcher(20.0, `interest\s+rate`)
	// A keyword hit with no parseable percentage still flags, downgraded,
	// rather than erroring or passing silently.
	match, ok := m.Match("The interest rate is specified in Schedule A %.")
	if !ok {
		t.Fatalf("expected a downgraded match without a numeric token")
	}
	if match.Severity == nil || *match.Severity != SeverityMedium {
		t.Fatalf("expected Medium severity override, got %+v", match.Severity)
	}
	if match.Tokens != nil {
		t.Fatalf("downgraded match should carry no rate tokens, got %v", match.Tokens)
	}
}

func TestNewKeywordMatcher_RejectsBadPattern(t *testing.T) {
	if _, err := NewKeywordMatcher(`([unclosed`); err == nil {
		t.Fatalf("expected compile error for invalid pattern")
	}
	if _, err := NewKeywordMatcher(); err == nil {
		t.Fatalf("expected error for empty pattern list")
	}
}
