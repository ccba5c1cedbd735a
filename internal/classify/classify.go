// Package classify evaluates the rule catalog against clause units and
// reduces multiple hits to one dominant finding per clause.
package classify

import (
	"github.com/clausewise-ai/clausewise/internal/rules"
	"github.com/clausewise-ai/clausewise/internal/segment"
)

// Finding is evidence that one rule matched one clause. Severity and
// Explanation are the effective values for this hit: the rule's own, unless
// the matcher overrode them.
type Finding struct {
	RuleID      string
	RuleIndex   int
	Category    rules.Category
	Severity    rules.Severity
	Span        rules.Span
	Tokens      map[string]string
	Explanation string
}

// Classify runs every catalog rule against the clause and returns all hits.
// There is no early exit: a clause may legitimately carry several unrelated
// risks, and the resolver decides later which one is surfaced. Classify is
// pure — identical input always yields identical findings.
func Classify(unit segment.ClauseUnit, catalog *rules.Catalog) []Finding {
	var findings []Finding
	for i, rule := range catalog.Rules() {
		m, ok := rule.Matcher.Match(unit.Text)
		if !ok {
			continue
		}
		severity := rule.BaseSeverity
		if m.Severity != nil {
			severity = *m.Severity
		}
		explanation := rule.Explanation
		if m.Explanation != "" {
			explanation = m.Explanation
		}
		findings = append(findings, Finding{
			RuleID:      rule.ID,
			RuleIndex:   i,
			Category:    rule.Category,
			Severity:    severity,
			Span:        m.Span,
			Tokens:      m.Tokens,
			Explanation: explanation,
		})
	}
	return findings
}

// Resolve picks the dominant finding: highest severity first, then lowest
// catalog-registration index. The index tie-break makes the choice stable
// no matter how the findings slice is ordered. The second return value is
// false when there are no findings.
func Resolve(findings []Finding) (Finding, bool) {
	if len(findings) == 0 {
		return Finding{}, false
	}
	best := findings[0]
	for _, f := range findings[1:] {
		if f.Severity > best.Severity {
			best = f
			continue
		}
		if f.Severity == best.Severity && f.RuleIndex < best.RuleIndex {
			best = f
		}
	}
	return best, true
}
