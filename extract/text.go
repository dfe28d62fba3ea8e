package extract

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// extractText reads UTF-8 as is and falls back to Windows-1252, a superset
// of Latin-1 for printable characters.
func extractText(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(content)
	if err != nil {
		return strings.ToValidUTF8(string(content), "�")
	}

	return string(decoded)
}
