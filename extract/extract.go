package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("file type not supported")
	ErrNoText            = errors.New("could not extract text content")
)

// Extensions lists the accepted upload types without the leading dot.
var Extensions = []string{"txt", "pdf", "docx"}

func Allowed(filename string) bool {
	return slices.Contains(Extensions, extension(filename))
}

// Extract returns the plain text of an uploaded file, dispatching on the
// filename's extension.
func Extract(filename string, content []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch ext := extension(filename); ext {
	case "txt":
		text = extractText(content)
	case "pdf":
		text, err = extractPDF(content)
	case "docx":
		text, err = extractDOCX(content)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}

	return text, nil
}

func extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
