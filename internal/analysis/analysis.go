// Package analysis runs the full clause pipeline: segment, classify,
// resolve, assemble. It owns the response contract consumed by the
// rendering layer.
package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/clausewise-ai/clausewise/internal/classify"
	"github.com/clausewise-ai/clausewise/internal/rules"
	"github.com/clausewise-ai/clausewise/internal/segment"
)

// DefaultMaxClauseText caps the clause text echoed in responses.
const DefaultMaxClauseText = 500

// Clause is one flagged clause in the response. Field names and severity
// literals are part of the compatibility contract with the rendering layer.
type Clause struct {
	ClauseID    string         `json:"clause_id"`
	Text        string         `json:"text"`
	RiskType    rules.Category `json:"risk_type"`
	Severity    rules.Severity `json:"severity"`
	Explanation string         `json:"explanation"`
}

// Result is the full analysis of one document, in original document order.
type Result struct {
	Clauses []Clause `json:"clauses"`
}

// Config tunes the engine. Zero values select the defaults.
type Config struct {
	MinClauseLength int
	MaxClauseText   int
}

// Engine analyzes raw document text against an immutable rule catalog.
// Engines are stateless between calls and safe for concurrent use.
type Engine struct {
	catalog       *rules.Catalog
	minClauseLen  int
	maxClauseText int
}

// New builds an engine over the given catalog.
func New(catalog *rules.Catalog, cfg Config) *Engine {
	minLen := cfg.MinClauseLength
	if minLen == 0 {
		minLen = segment.DefaultMinLength
	}
	maxText := cfg.MaxClauseText
	if maxText <= 0 {
		maxText = DefaultMaxClauseText
	}
	return &Engine{
		catalog:       catalog,
		minClauseLen:  minLen,
		maxClauseText: maxText,
	}
}

// Analyze segments the text, classifies every clause against the catalog
// and assembles the flagged clauses in document order. It is total: any
// input, including the empty string, yields a well-formed Result.
func (e *Engine) Analyze(raw string) Result {
	units := segment.Segment(raw, e.minClauseLen)

	result := Result{Clauses: []Clause{}}
	for _, unit := range units {
		findings := classify.Classify(unit, e.catalog)
		dominant, ok := classify.Resolve(findings)
		if !ok {
			// Clauses without findings carry no risk signal and are
			// omitted from the output.
			continue
		}
		result.Clauses = append(result.Clauses, e.assemble(unit, dominant))
	}
	return result
}

// assemble turns a clause unit plus its dominant finding into the output
// entity, rendering the finding's explanation template.
func (e *Engine) assemble(unit segment.ClauseUnit, dominant classify.Finding) Clause {
	return Clause{
		ClauseID:    fmt.Sprintf("clause-%d", unit.ID),
		Text:        truncate(unit.Text, e.maxClauseText),
		RiskType:    dominant.Category,
		Severity:    dominant.Severity,
		Explanation: renderExplanation(dominant.Explanation, dominant.Tokens),
	}
}

// renderExplanation substitutes {token} placeholders with values the
// matcher extracted. Unknown placeholders are left as-is.
func renderExplanation(template string, tokens map[string]string) string {
	if len(tokens) == 0 || !strings.Contains(template, "{") {
		return template
	}
	pairs := make([]string, 0, len(tokens)*2)
	for k, v := range tokens {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
