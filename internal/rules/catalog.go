package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultInterestRateThreshold is the annual percentage above which an
// interest-rate mention is flagged as high.
const DefaultInterestRateThreshold = 20.0

// Options tunes the built-in catalog.
type Options struct {
	// InterestRateThreshold overrides DefaultInterestRateThreshold when > 0.
	InterestRateThreshold float64
}

// Catalog is the process-wide rule registry. It is assembled once at
// startup and read-only afterwards, so concurrent readers need no locking.
// Registration order is significant: it is the documented tie-break for
// equal-severity hits.
type Catalog struct {
	rules []Rule
	byID  map[string]int
}

// NewCatalog returns the built-in catalog.
func NewCatalog(opts Options) *Catalog {
	threshold := opts.InterestRateThreshold
	if threshold <= 0 {
		threshold = DefaultInterestRateThreshold
	}

	c := &Catalog{byID: map[string]int{}}
	for _, r := range builtinRules(threshold) {
		// Built-in IDs are unique by construction.
		_ = c.register(r)
	}
	return c
}

// Rules returns the registered rules in registration order. Callers must
// not modify the returned slice.
func (c *Catalog) Rules() []Rule {
	return c.rules
}

// Index returns the registration index of a rule ID.
func (c *Catalog) Index(id string) (int, bool) {
	i, ok := c.byID[id]
	return i, ok
}

// Len returns the number of registered rules.
func (c *Catalog) Len() int {
	return len(c.rules)
}

func (c *Catalog) register(r Rule) error {
	if r.ID == "" {
		return fmt.Errorf("rule id must be set")
	}
	if _, dup := c.byID[r.ID]; dup {
		return fmt.Errorf("duplicate rule id %q", r.ID)
	}
	if r.Matcher == nil {
		return fmt.Errorf("rule %q has no matcher", r.ID)
	}
	c.byID[r.ID] = len(c.rules)
	c.rules = append(c.rules, r)
	return nil
}

// ruleSpec is the on-disk form of a rule in a catalog file.
type ruleSpec struct {
	ID          string   `yaml:"id"`
	Category    string   `yaml:"category"`
	Severity    Severity `yaml:"severity"`
	Keywords    []string `yaml:"keywords"`
	Threshold   *float64 `yaml:"threshold"`
	Explanation string   `yaml:"explanation"`
}

type catalogFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

// LoadFile appends rules from a YAML catalog file, in file order, after the
// already-registered rules. Deployments use this to add risk categories
// without a rebuild.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read rules file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse rules file: %w", err)
	}

	for i, spec := range file.Rules {
		r, err := spec.build()
		if err != nil {
			return fmt.Errorf("rules file entry %d: %w", i, err)
		}
		if err := c.register(r); err != nil {
			return fmt.Errorf("rules file entry %d: %w", i, err)
		}
	}
	return nil
}

func (s ruleSpec) build() (Rule, error) {
	if s.Category == "" {
		return Rule{}, fmt.Errorf("rule %q missing category", s.ID)
	}
	if len(s.Keywords) == 0 {
		return Rule{}, fmt.Errorf("rule %q has no keywords", s.ID)
	}

	var (
		m   Matcher
		err error
	)
	if s.Threshold != nil {
		m, err = NewRateThresholdMatcher(*s.Threshold, s.Keywords...)
	} else {
		m, err = NewKeywordMatcher(s.Keywords...)
	}
	if err != nil {
		return Rule{}, err
	}

	return Rule{
		ID:           s.ID,
		Category:     Category(s.Category),
		BaseSeverity: s.Severity,
		Matcher:      m,
		Explanation:  s.Explanation,
	}, nil
}

// builtinRules is the compiled-in risk catalog. Order matters: it fixes the
// tie-break between equal-severity hits, so new rules go at the end.
func builtinRules(interestThreshold float64) []Rule {
	return []Rule{
		{
			ID:           "high_interest_rate",
			Category:     CategoryHighInterestRate,
			BaseSeverity: SeverityHigh,
			Matcher: MustRateThresholdMatcher(interestThreshold,
				`interest\s+rate`,
				`annual\s+percentage\s+rate`,
				`\bapr\b`,
				`rate\s+of\s+interest`,
				`interest\s+charged`,
			),
			Explanation: "This clause sets an interest rate of {rate}%, above the {threshold}% threshold commonly considered high. A rate at this level can significantly increase the total amount paid over the life of the agreement.",
		},
		{
			ID:           "hidden_fees",
			Category:     CategoryHiddenFees,
			BaseSeverity: SeverityMedium,
			Matcher: MustKeywordMatcher(
				`hidden\s+fee`,
				`administrative\s+fee`,
				`processing\s+fee`,
				`service\s+charge`,
				`convenience\s+fee`,
				`maintenance\s+fee`,
				`annual\s+fee`,
				`late\s+fee`,
				`overdraft\s+fee`,
				`transaction\s+fee`,
				`application\s+fee`,
				`origination\s+fee`,
			),
			Explanation: "This clause introduces fees beyond the principal amount. Individually small charges add up over time; review the full fee schedule to understand the complete cost of the agreement.",
		},
		{
			ID:           "penalty_clause",
			Category:     CategoryPenaltyClause,
			BaseSeverity: SeverityHigh,
			Matcher: MustKeywordMatcher(
				`penalty\s+charge`,
				`penalty\s+fee`,
				`penal\s+interest`,
				`default\s+rate`,
				`breach\s+penalt`,
				`violation\s+penalt`,
				`liquidated\s+damages`,
				`late\s+payment\s+penalt`,
			),
			Explanation: "This clause imposes penalties when certain conditions are not met. Penalties can mean extra charges or a higher interest rate; make sure you understand exactly what triggers them.",
		},
		{
			ID:           "auto_renewal",
			Category:     CategoryAutoRenewal,
			BaseSeverity: SeverityMedium,
			Matcher: MustKeywordMatcher(
				`auto[-\s]?renew`,
				`automatic\s+renewal`,
				`auto[-\s]?extend`,
				`automatic\s+extension`,
				`renew\w*\s+automatically`,
				`continuous\s+renewal`,
			),
			Explanation: "This clause renews the agreement automatically. You stay bound unless you actively cancel; note the renewal date and the cancellation procedure.",
		},
		{
			ID:           "one_sided_termination",
			Category:     CategoryOneSidedTermination,
			BaseSeverity: SeverityHigh,
			Matcher: MustKeywordMatcher(
				`without\s+notice`,
				`sole\s+discretion`,
				`terminat\w*\s+at\s+any\s+time`,
				`unilateral\s+termination`,
				`termination\s+without\s+cause`,
				`at\s+(?:our|its)\s+discretion`,
				`we\s+may\s+terminate`,
				`reserves?\s+the\s+right\s+to\s+terminate`,
			),
			Explanation: "This clause lets one party end the agreement at its discretion or with minimal notice. That imbalance can leave the other party without recourse or time to react.",
		},
		{
			ID:           "arbitration_clause",
			Category:     CategoryArbitrationClause,
			BaseSeverity: SeverityLow,
			Matcher: MustKeywordMatcher(
				`binding\s+arbitration`,
				`mandatory\s+arbitration`,
				`waive\w*\s+(?:the\s+)?right\s+to\s+sue`,
				`class\s+action\s+waiver`,
				`dispute\s+resolution\s+by\s+arbitration`,
			),
			Explanation: "This clause routes disputes to arbitration instead of court, which may limit the ability to pursue legal action or join a class action.",
		},
		{
			ID:           "variable_interest_rate",
			Category:     CategoryVariableInterestRate,
			BaseSeverity: SeverityMedium,
			Matcher: MustKeywordMatcher(
				`variable\s+rate`,
				`adjustable\s+rate`,
				`rate\s+may\s+change`,
				`rate\s+(?:is\s+)?subject\s+to\s+change`,
				`floating\s+rate`,
			),
			Explanation: "This clause lets the interest rate change over time. Payments can rise significantly; check what drives rate changes and whether a maximum rate applies.",
		},
		{
			ID:           "prepayment_penalty",
			Category:     CategoryPrepaymentPenalty,
			BaseSeverity: SeverityMedium,
			Matcher: MustKeywordMatcher(
				`prepayment`,
				`early\s+repayment`,
				`early\s+payment\s+penalt`,
				`early\s+termination\s+fee`,
				`repay\w*\s+early`,
			),
			Explanation: "This clause charges for paying the debt off early, which discourages early repayment and adds cost if you want to settle ahead of schedule.",
		},
	}
}
