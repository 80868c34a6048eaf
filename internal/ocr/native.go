package ocr

import (
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
)

// Native extracts text from PDFs with the pure-Go ledongthuc/pdf reader.
// Pages are concatenated in order, one row of text per line, which
// preserves the label-above-value layout the parser relies on.
type Native struct{}

// NewNative creates a Native extractor.
func NewNative() *Native {
	return &Native{}
}

// ExtractText reads every page of the PDF and returns the concatenated
// text. Row extraction is tried first; pages where it fails fall back to
// plain-text extraction.
func (n *Native) ExtractText(ctx context.Context, pdfPath string) (text string, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("ocr: pdf reader crashed on %s: %v", pdfPath, r)
		}
	}()

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", eris.Wrapf(err, "ocr: open %s", pdfPath)
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return "", eris.Errorf("ocr: %s has no pages", pdfPath)
	}

	var b strings.Builder
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", eris.Wrapf(err, "ocr: extract %s", pdfPath)
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		b.WriteString(pageText(page))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// pageText renders one page as newline-separated rows.
func pageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		return strings.Join(lines, "\n")
	}

	plain, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return plain
}
