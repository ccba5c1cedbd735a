package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfExtractor pulls plain text out of a PDF, page by page. Pages that
// fail to decode are skipped; only a document with no extractable text at
// all is an error (typically a scanned/image-only PDF).
type pdfExtractor struct{}

func (p *pdfExtractor) Format() string { return "pdf" }

func (p *pdfExtractor) Extract(data []byte) (text string, err error) {
	// The pdf library panics on some malformed files; fold that into the
	// normal decode-error path.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &DecodeError{Format: "pdf", Err: fmt.Errorf("malformed file: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &DecodeError{Format: "pdf", Err: err}
	}

	var parts []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(pageText) != "" {
			parts = append(parts, pageText)
		}
	}

	if len(parts) == 0 {
		return "", &DecodeError{
			Format: "pdf",
			Err:    fmt.Errorf("no extractable text (file may be corrupted or image-based)"),
		}
	}
	return strings.Join(parts, "\n\n"), nil
}
