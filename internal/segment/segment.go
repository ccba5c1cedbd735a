// Package segment splits raw document text into ordered clause units.
package segment

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultMinLength is the minimum normalized length a unit must have to be
// retained. Shorter fragments are almost always headers, page numbers or
// list markers with no analyzable content.
const DefaultMinLength = 15

// ClauseUnit is one analyzable span of document text. Text is whitespace-
// normalized; Start/End are byte offsets into the untouched raw text so a
// consumer can always trace a unit back to its source.
type ClauseUnit struct {
	ID    int
	Text  string
	Start int
	End   int
}

var (
	paragraphBreakRe = regexp.MustCompile(`\n[ \t\r]*\n+`)
	sentenceEndRe    = regexp.MustCompile(`[.!?]+\s+`)
	listMarkerRe     = regexp.MustCompile(`(?m)^[ \t]*(?:\d+\.|\([a-zA-Z0-9]{1,3}\)|[a-zA-Z]\))[ \t]+`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
)

// Segment splits raw text into clause units on sentence boundaries,
// paragraph breaks and list markers. Units whose normalized text is shorter
// than minLength are dropped; minLength <= 0 disables the filter. IDs are
// assigned to retained units in document order starting at 0.
//
// Segment never fails: empty input yields an empty slice and text with no
// detectable boundary degrades to a single unit covering the whole input.
func Segment(raw string, minLength int) []ClauseUnit {
	if strings.TrimSpace(raw) == "" {
		return []ClauseUnit{}
	}

	cuts := boundaryCuts(raw)

	units := make([]ClauseUnit, 0, len(cuts)+1)
	prev := 0
	for _, cut := range append(cuts, len(raw)) {
		if cut <= prev {
			continue
		}
		if u, ok := makeUnit(raw, prev, cut, minLength); ok {
			u.ID = len(units)
			units = append(units, u)
		}
		prev = cut
	}
	return units
}

// boundaryCuts returns sorted, de-duplicated byte positions where one unit
// ends and the next begins.
func boundaryCuts(raw string) []int {
	seen := map[int]struct{}{}
	var cuts []int
	add := func(pos int) {
		if pos <= 0 || pos >= len(raw) {
			return
		}
		if _, dup := seen[pos]; dup {
			return
		}
		seen[pos] = struct{}{}
		cuts = append(cuts, pos)
	}

	// Sentence enders and paragraph breaks cut after the boundary text,
	// list markers cut before it so the marker opens the next unit.
	for _, m := range sentenceEndRe.FindAllStringIndex(raw, -1) {
		add(m[1])
	}
	for _, m := range paragraphBreakRe.FindAllStringIndex(raw, -1) {
		add(m[1])
	}
	for _, m := range listMarkerRe.FindAllStringIndex(raw, -1) {
		add(m[0])
	}

	sort.Ints(cuts)
	return cuts
}

// makeUnit trims the candidate [a,b) span, normalizes its text and applies
// the minimum-length filter. The returned span offsets exclude the trimmed
// surrounding whitespace.
func makeUnit(raw string, a, b, minLength int) (ClauseUnit, bool) {
	sub := raw[a:b]
	start := a + (len(sub) - len(strings.TrimLeft(sub, " \t\r\n")))
	end := b - (len(sub) - len(strings.TrimRight(sub, " \t\r\n")))
	if start >= end {
		return ClauseUnit{}, false
	}

	text := Normalize(raw[start:end])
	if minLength > 0 && len(text) < minLength {
		return ClauseUnit{}, false
	}

	return ClauseUnit{Text: text, Start: start, End: end}, true
}

// Normalize collapses whitespace runs to single spaces and trims the ends.
func Normalize(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
