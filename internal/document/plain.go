package document

import (
	"bytes"
	"errors"
	"unicode/utf8"
)

// plainExtractor passes UTF-8 text through untouched.
type plainExtractor struct{}

func (p *plainExtractor) Format() string { return "text" }

func (p *plainExtractor) Extract(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &DecodeError{Format: "text", Err: errors.New("not valid UTF-8")}
	}
	// Strip a UTF-8 BOM if present so it never leaks into clause spans.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	return string(data), nil
}
