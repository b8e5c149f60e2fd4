// Package extractor obtains plain text from raw document bytes, keyed by
// file extension. It is the text-extraction collaborator the ingestion
// pipeline calls before chunking.
package extractor

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
)

// Extract returns the text content of a document. ext must include the
// leading dot and be lower-cased.
func Extract(data []byte, ext string) (string, error) {
	switch ext {
	case ".txt":
		return decodeWithFallback(data), nil
	case ".md", ".markdown":
		return extractMarkdown(data)
	case ".pdf":
		return extractPDF(data)
	case ".docx", ".doc":
		return extractDOCX(data)
	case ".xlsx":
		return extractXLSX(data)
	case ".ods":
		return extractODS(data)
	default:
		return "", fmt.Errorf("unsupported file format: %s", ext)
	}
}

// decodeWithFallback interprets bytes as UTF-8 when valid and as Latin-1
// otherwise, then scrubs non-printable runes to spaces.
func decodeWithFallback(data []byte) string {
	var s string
	if utf8.Valid(data) {
		s = string(data)
	} else {
		runes := make([]rune, len(data))
		for i, b := range data {
			runes[i] = rune(b)
		}
		s = string(runes)
	}
	return cleanText(s)
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		text.WriteString(cleanText(pageText))
		text.WriteString("\n")
	}
	return text.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer r.Close()

	content := r.Editable().GetContent()
	var text strings.Builder
	for _, para := range strings.Split(content, "\n") {
		para = cleanText(para)
		if strings.TrimSpace(para) == "" {
			continue
		}
		text.WriteString(para)
		text.WriteString("\n")
	}
	return text.String(), nil
}

func extractXLSX(data []byte) (string, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, sheet := range f.Sheets {
		text.WriteString("Sheet: " + sheet.Name + "\n")
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
	}
	return cleanText(text.String()), nil
}

func extractODS(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer f.Close()

	var text strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		text.WriteString("Sheet: " + sheetName + "\n")
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell + "\t")
			}
			text.WriteString("\n")
		}
	}
	return cleanText(text.String()), nil
}

// cleanText replaces non-printable, non-whitespace runes with spaces.
func cleanText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}
