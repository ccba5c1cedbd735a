package redact

import (
	"strings"
	"testing"
)

func TestString_Email(t *testing.T) {
	got := String("contact borrower at jane.doe@example.com immediately")
	if strings.Contains(got, "jane.doe@example.com") {
		t.Fatalf("email survived redaction: %q", got)
	}
	if !strings.Contains(got, "[REDACTED_EMAIL]") {
		t.Fatalf("expected email placeholder: %q", got)
	}
}

func TestString_Phone(t *testing.T) {
	got := String("call +1 415 555 0134 for details")
	if strings.Contains(got, "555 0134") {
		t.Fatalf("phone number survived redaction: %q", got)
	}
}

func TestString_CardNumber(t *testing.T) {
	got := String("card 4111 1111 1111 1111 on file")
	if strings.Contains(got, "4111 1111 1111 1111") {
		t.Fatalf("card number survived redaction: %q", got)
	}
}

func TestString_IBAN(t *testing.T) {
	got := String("transfer to DE89370400440532013000 monthly")
	if strings.Contains(got, "DE89370400440532013000") {
		t.Fatalf("IBAN survived redaction: %q", got)
	}
}

func TestString_SSN(t *testing.T) {
	got := String("ssn 123-45-6789 provided")
	if strings.Contains(got, "123-45-6789") {
		t.Fatalf("SSN survived redaction: %q", got)
	}
}

func TestString_PlainTextUntouched(t *testing.T) {
	in := "a penalty fee applies after the third missed payment"
	if got := String(in); got != in {
		t.Fatalf("plain text altered: %q", got)
	}
}

func TestPreview(t *testing.T) {
	got := Preview("line one\n\nline two with jane@example.com inside", 200)
	if strings.Contains(got, "\n") {
		t.Fatalf("preview should be single-line: %q", got)
	}
	if strings.Contains(got, "jane@example.com") {
		t.Fatalf("preview leaked an email: %q", got)
	}

	long := strings.Repeat("abcde ", 100)
	capped := Preview(long, 50)
	if len(capped) > 53 { // 50 plus the ellipsis
		t.Fatalf("preview not capped: %d bytes", len(capped))
	}

	if Preview("anything", 0) != "" {
		t.Fatalf("zero budget must yield empty preview")
	}
}
