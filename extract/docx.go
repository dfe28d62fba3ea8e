package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
)

const docxDocumentPath = "word/document.xml"

var (
	paragraphTag = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>`)
	textTag      = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)
)

// extractDOCX reads the text runs of word/document.xml, one line per
// paragraph.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	f, err := zr.Open(docxDocumentPath)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()

	doc, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}

	var lines []string
	for _, paragraph := range paragraphTag.FindAll(doc, -1) {
		var b strings.Builder
		for _, run := range textTag.FindAllSubmatch(paragraph, -1) {
			b.WriteString(html.UnescapeString(string(run[1])))
		}

		if line := strings.TrimSpace(b.String()); line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n"), nil
}
