// Package doctext extracts a flattened text blob from an uploaded
// document. The parsing engine treats it as an external collaborator: it
// sees only the text stream, never the document layout.
package doctext

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// ErrUnreadableDocument indicates the bytes could not be interpreted as
// PDF, XLSX or UTF-8 text.
var ErrUnreadableDocument = errors.New("document is not readable text, PDF or XLSX")

var (
	pdfMagic  = []byte("%PDF")
	xlsxMagic = []byte("PK\x03\x04")
)

// Extractor converts document bytes to text, dispatching on magic bytes.
type Extractor struct{}

// New creates an extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the document's text. PDFs go through ledongthuc/pdf,
// XLSX workbooks through excelize with cells joined into columnar lines,
// and anything else passes through as UTF-8 text.
func (e *Extractor) Extract(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return extractPDF(data)
	case bytes.HasPrefix(data, xlsxMagic):
		return extractXLSX(data)
	default:
		if len(data) == 0 || !utf8.Valid(data) {
			return "", ErrUnreadableDocument
		}
		return string(data), nil
	}
}

// extractPDF reads text row by row to keep line structure, falling back
// to the reader's plain-text stream. The library can panic on malformed
// documents, so the whole extraction is guarded.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf extraction crashed: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			for j, word := range row.Content {
				if j > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(word.S)
			}
			sb.WriteString("\n")
		}
	}

	if sb.Len() > 0 {
		return sb.String(), nil
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return buf.String(), nil
}

// extractXLSX joins each row's cells with wide whitespace so the
// delimiter-separated strategy sees the original columns.
func extractXLSX(data []byte) (string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer wb.Close()

	var sb strings.Builder
	for _, sheet := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			sb.WriteString(strings.Join(row, "    "))
			sb.WriteString("\n")
		}
	}

	if sb.Len() == 0 {
		return "", ErrUnreadableDocument
	}
	return sb.String(), nil
}
