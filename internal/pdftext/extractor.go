// Package pdftext extracts per-page plain text from PDF files.
package pdftext

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	"ptrwatch/internal/logger"
)

// Extractor reads PDF documents from disk. It is safe for concurrent use.
type Extractor struct{}

// NewExtractor returns a PDF page text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractPages returns the plain text of every page of the PDF at path, in
// order. A page whose text cannot be extracted is returned as "". An error is
// returned only when the document itself cannot be opened.
func (e *Extractor) ExtractPages(path string) ([]string, error) {
	f, r, err := openPDF(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	n := r.NumPage()
	pages := make([]string, n)
	for i := 1; i <= n; i++ {
		text, err := pageText(r, i)
		if err != nil {
			logger.Get().Warnw("page text extraction failed",
				"path", path,
				"page", i,
				"error", err,
			)
			continue
		}
		pages[i-1] = text
	}
	return pages, nil
}

// openPDF wraps pdf.Open, which panics on some malformed cross-reference
// tables.
func openPDF(path string) (f *os.File, r *pdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed PDF: %v", p)
		}
	}()
	return pdf.Open(path)
}

func pageText(r *pdf.Reader, n int) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed page content: %v", p)
		}
	}()

	page := r.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
