package redact

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Uploaded documents routinely contain personal data. Nothing that looks
// like an email address, phone number, card number or IBAN may reach the
// process log, so every log line goes through String first.
var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	ssnRe   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	ibanRe  = regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`)
	cardRe  = regexp.MustCompile(`\b(?:\d[ -]*?){13,16}\b`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s\-()]{7,}\d`)
)

// String redacts known personal-data patterns from free-form strings.
func String(s string) string {
	if s == "" {
		return s
	}

	out := s
	out = emailRe.ReplaceAllString(out, "[REDACTED_EMAIL]")
	out = ssnRe.ReplaceAllString(out, "[REDACTED_SSN]")
	out = ibanRe.ReplaceAllString(out, "[REDACTED_IBAN]")
	out = cardRe.ReplaceAllString(out, "[REDACTED_NUMBER]")
	out = phoneRe.ReplaceAllString(out, "[REDACTED_NUMBER]")
	return out
}

// Sprintf formats like fmt.Sprintf and redacts the result.
func Sprintf(format string, args ...interface{}) string {
	return String(fmt.Sprintf(format, args...))
}

// Logf prints a redacted log line.
func Logf(format string, args ...interface{}) {
	log.Print(Sprintf(format, args...))
}

// Fatalf prints a redacted fatal log line.
func Fatalf(format string, args ...interface{}) {
	log.Fatal(Sprintf(format, args...))
}

// Preview returns a redacted, single-line, length-capped excerpt of document
// text suitable for audit events and log lines.
func Preview(s string, max int) string {
	if max <= 0 || s == "" {
		return ""
	}
	flat := strings.Join(strings.Fields(s), " ")
	if len(flat) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(flat[cut]) {
			cut--
		}
		flat = flat[:cut] + "..."
	}
	return String(flat)
}
