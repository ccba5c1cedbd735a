package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// docxExtractor reads word/document.xml out of the DOCX zip container and
// collects the text runs. Paragraphs become blank-line-separated blocks so
// the segmenter sees the same boundaries a reader would. Table cell text is
// captured too since the runs live in the same element tree.
type docxExtractor struct{}

func (d *docxExtractor) Format() string { return "docx" }

func (d *docxExtractor) Extract(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &DecodeError{Format: "docx", Err: err}
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", &DecodeError{Format: "docx", Err: errors.New("word/document.xml not found")}
	}

	rc, err := doc.Open()
	if err != nil {
		return "", &DecodeError{Format: "docx", Err: err}
	}
	defer rc.Close()

	text, err := collectRuns(rc)
	if err != nil {
		return "", &DecodeError{Format: "docx", Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &DecodeError{Format: "docx", Err: errors.New("document contains no text")}
	}
	return text, nil
}

// collectRuns streams the WordprocessingML and concatenates the contents of
// <w:t> runs, inserting paragraph breaks at </w:p> and tabs between table
// cells.
func collectRuns(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		sb     strings.Builder
		inRun  bool
		hasAny bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				inRun = true
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inRun = false
			case "p":
				if hasAny {
					sb.WriteString("\n\n")
				}
			case "tc":
				sb.WriteString("\t")
			}
		case xml.CharData:
			if inRun {
				sb.Write(el)
				hasAny = true
			}
		}
	}
	return sb.String(), nil
}
