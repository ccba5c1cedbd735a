// Package rules holds the declarative risk-rule catalog: what to look for
// in a clause, how severe a hit is, and how to explain it to a reader.
package rules

import (
	"encoding/json"
	"fmt"
)

// Severity is the ordinal risk level of a rule hit.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

// severityNames are part of the response contract and must not change.
var severityNames = map[Severity]string{
	SeverityLow:    "Low",
	SeverityMedium: "Medium",
	SeverityHigh:   "High",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// MarshalJSON emits the contract literal ("Low", "Medium", "High").
func (s Severity) MarshalJSON() ([]byte, error) {
	name, ok := severityNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown severity %d", int(s))
	}
	return json.Marshal(name)
}

// UnmarshalJSON accepts the contract literal.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity maps a contract literal back to a Severity.
func ParseSeverity(name string) (Severity, error) {
	for s, n := range severityNames {
		if n == name {
			return s, nil
		}
	}
	return SeverityLow, fmt.Errorf("unknown severity %q", name)
}

// UnmarshalYAML lets catalog files spell severities the same way the
// response contract does.
func (s *Severity) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Category identifies the kind of risk a rule detects. The built-in set is
// below; catalog files may introduce new categories freely.
type Category string

const (
	CategoryHighInterestRate     Category = "HighInterestRate"
	CategoryHiddenFees           Category = "HiddenFees"
	CategoryPenaltyClause        Category = "PenaltyClause"
	CategoryAutoRenewal          Category = "AutoRenewal"
	CategoryOneSidedTermination  Category = "OneSidedTermination"
	CategoryArbitrationClause    Category = "ArbitrationClause"
	CategoryVariableInterestRate Category = "VariableInterestRate"
	CategoryPrepaymentPenalty    Category = "PrepaymentPenalty"
)

// Span is a half-open byte range into the matched clause text.
type Span struct {
	Start int
	End   int
}

// Match is a successful matcher evaluation: where the rule fired and any
// tokens it extracted (e.g. the offending rate) for explanation rendering.
// A matcher may downgrade a hit by setting Severity and Explanation, as the
// rate matcher does when a rate stays under its threshold.
type Match struct {
	Span   Span
	Tokens map[string]string

	// Severity, when non-nil, overrides the rule's BaseSeverity for this hit.
	Severity *Severity
	// Explanation, when non-empty, replaces the rule's template for this hit.
	Explanation string
}

// Matcher is a pure predicate over clause text. Implementations must be
// deterministic and safe for concurrent use; an internal parsing fault is
// reported as a non-match, never an error.
type Matcher interface {
	Match(text string) (Match, bool)
}

// Rule is one immutable catalog entry. Explanation may contain {token}
// placeholders filled from Match.Tokens at assembly time.
type Rule struct {
	ID           string
	Category     Category
	BaseSeverity Severity
	Matcher      Matcher
	Explanation  string
}
