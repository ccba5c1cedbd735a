package rules

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestNewCatalog_RegistrationOrderStable(t *testing.T) {
	c := NewCatalog(Options{})

	wantOrder := []string{
		"high_interest_rate",
		"hidden_fees",
		"penalty_clause",
		"auto_renewal",
		"one_sided_termination",
		"arbitration_clause",
		"variable_interest_rate",
		"prepayment_penalty",
	}
	if c.Len() != len(wantOrder) {
		t.Fatalf("expected %d built-in rules, got %d", len(wantOrder), c.Len())
	}
	for i, id := range wantOrder {
		if c.Rules()[i].ID != id {
			t.Fatalf("rule %d: expected %q, got %q", i, id, c.Rules()[i].ID)
		}
		idx, ok := c.Index(id)
		if !ok || idx != i {
			t.Fatalf("Index(%q) = %d,%v, want %d,true", id, idx, ok, i)
		}
	}
}

func TestCatalog_LoadFileAppendsRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
rules:
  - id: balloon_payment
    category: BalloonPayment
    severity: High
    keywords:
      - 'balloon\s+payment'
    explanation: "This clause defers a large lump sum to the end of the term."
  - id: negative_amortization
    category: NegativeAmortization
    severity: Medium
    keywords:
      - 'negative\s+amortization'
    threshold: 0.0
    explanation: "The balance can grow even while payments are made."
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	c := NewCatalog(Options{})
	builtin := c.Len()
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Len() != builtin+2 {
		t.Fatalf("expected %d rules after load, got %d", builtin+2, c.Len())
	}

	idx, ok := c.Index("balloon_payment")
	if !ok || idx != builtin {
		t.Fatalf("loaded rule should register after built-ins, got idx=%d ok=%v", idx, ok)
	}

	r := c.Rules()[idx]
	if r.Category != Category("BalloonPayment") || r.BaseSeverity != SeverityHigh {
		t.Fatalf("loaded rule fields wrong: %+v", r)
	}
	if _, ok := r.Matcher.Match("The final balloon payment is due at maturity."); !ok {
		t.Fatalf("loaded rule matcher should fire")
	}
}

func TestCatalog_LoadFileRejectsDuplicateID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
rules:
  - id: hidden_fees
    category: HiddenFees
    severity: Medium
    keywords: ['extra\s+fee']
    explanation: "dup"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	c := NewCatalog(Options{})
	if err := c.LoadFile(path); err == nil {
		t.Fatalf("expected duplicate id to be rejected")
	}
}

func TestCatalog_InterestThresholdOption(t *testing.T) {
	strict := NewCatalog(Options{InterestRateThreshold: 5.0})
	idx, _ := strict.Index("high_interest_rate")
	if _, ok := strict.Rules()[idx].Matcher.Match("An interest rate of 6% applies."); !ok {
		t.Fatalf("expected 6%% to exceed a 5%% threshold")
	}

	lax := NewCatalog(Options{InterestRateThreshold: 30.0})
	idx, _ = lax.Index("high_interest_rate")
	match, ok := lax.Rules()[idx].Matcher.Match("An interest rate of 6% applies.")
	if !ok {
		t.Fatalf("expected a downgraded match under a 30%% threshold")
	}
	if match.Severity == nil || *match.Severity != SeverityMedium {
		t.Fatalf("expected 6%% under a 30%% threshold to downgrade to Medium, got %+v", match.Severity)
	}
}

func TestSeverity_JSONLiterals(t *testing.T) {
	for s, want := range map[Severity]string{
		SeverityLow:    `"Low"`,
		SeverityMedium: `"Medium"`,
		SeverityHigh:   `"High"`,
	} {
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("marshal %v: %v", s, err)
		}
		if string(data) != want {
			t.Fatalf("severity %v marshals to %s, want %s", s, data, want)
		}
	}
}

func TestSeverity_Ordering(t *testing.T) {
	if !(SeverityLow < SeverityMedium && SeverityMedium < SeverityHigh) {
		t.Fatalf("severity ordering broken")
	}
}

func TestParseSeverity(t *testing.T) {
	s, err := ParseSeverity("Medium")
	if err != nil || s != SeverityMedium {
		t.Fatalf("ParseSeverity(Medium) = %v, %v", s, err)
	}
	if _, err := ParseSeverity("Critical"); err == nil {
		t.Fatalf("expected error for unknown severity name")
	}
}
