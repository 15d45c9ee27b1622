// Package ingest converts uploaded documents into the plain paper text
// the review pipeline consumes.
package ingest

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxPages caps how much of a PDF is extracted. Review quality past the
// front matter and body does not improve with appendix text, and the
// prompt truncates long papers anyway.
const maxPages = 10

// pdfMagic is the header every PDF starts with.
var pdfMagic = []byte("%PDF-")

// Extractor converts uploaded documents to paper text. Plain text files
// pass through unchanged; PDFs are extracted page by page.
type Extractor struct{}

// NewExtractor creates a document extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the paper text for an uploaded document. The format
// is chosen by content sniffing with the file extension as a fallback.
func (e *Extractor) Extract(fileName string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("document %s is empty", fileName)
	}

	if bytes.HasPrefix(data, pdfMagic) {
		return extractPDF(fileName, data)
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt", ".md", "":
		return string(data), nil

	case ".pdf":
		// Claimed to be a PDF but the header is missing.
		return "", fmt.Errorf("document %s is not a valid PDF",
			fileName)

	default:
		return "", fmt.Errorf("unsupported document type %q",
			filepath.Ext(fileName))
	}
}

// extractPDF pulls plain text from the first maxPages pages, tagging
// each page so the reviewer can cite locations.
func extractPDF(fileName string, data []byte) (text string, err error) {
	// The parser panics on malformed xref tables instead of
	// returning an error.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("parse pdf %s: %v", fileName, r)
		}
	}()

	reader, err := pdf.NewReader(
		bytes.NewReader(data), int64(len(data)),
	)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", fileName, err)
	}

	numPages := reader.NumPage()
	if numPages > maxPages {
		log.Debugf("Truncating %s from %d to %d pages", fileName,
			numPages, maxPages)
		numPages = maxPages
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d of %s: %w",
				i, fileName, err)
		}

		fmt.Fprintf(&sb, "[Page %d]\n%s\n\n", i, pageText)
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("no extractable text in %s, the "+
			"document may be scanned images", fileName)
	}

	return out, nil
}
