// Package document converts uploaded files into plain text. The analysis
// engine only ever sees the extracted text; everything format-specific
// stays behind the Extractor interface.
package document

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// RawDocument is the extractor output handed to the analysis pipeline.
type RawDocument struct {
	Text     string
	Filename string
	Bytes    int
}

// DecodeError reports that a file could not be decoded into text. It is a
// request-level failure: the same file will always fail the same way, so
// callers must not retry.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("decode %s document", e.Format)
	}
	return fmt.Sprintf("decode %s document: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Extractor produces plain text from one document format.
type Extractor interface {
	// Format names the handled format, e.g. "pdf".
	Format() string
	// Extract decodes the file bytes into plain text. Failures are
	// *DecodeError.
	Extract(data []byte) (string, error)
}

// extractors maps lowercased filename extensions to extractors. Built once
// at init, read-only afterwards.
var extractors = map[string]Extractor{
	".pdf":  &pdfExtractor{},
	".docx": &docxExtractor{},
	".txt":  &plainExtractor{},
	".md":   &plainExtractor{},
}

// ForFilename selects an extractor by filename extension.
func ForFilename(name string) (Extractor, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	e, ok := extractors[ext]
	return e, ok
}

// SupportedExtensions lists the extensions ForFilename accepts.
func SupportedExtensions() []string {
	out := make([]string, 0, len(extractors))
	for ext := range extractors {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Extract decodes the named file's bytes into a RawDocument.
func Extract(filename string, data []byte) (RawDocument, error) {
	e, ok := ForFilename(filename)
	if !ok {
		return RawDocument{}, &DecodeError{
			Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."),
			Err:    fmt.Errorf("unsupported file type"),
		}
	}
	text, err := e.Extract(data)
	if err != nil {
		return RawDocument{}, err
	}
	return RawDocument{
		Text:     text,
		Filename: filename,
		Bytes:    len(data),
	}, nil
}
