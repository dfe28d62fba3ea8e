package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/flarexio/docqa"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

// MaxPieceChars bounds the text sent per generation call.
const MaxPieceChars = 4000

const DefaultTemplate = `Translate the following text from {source} ({source_code}) to {target} ({target_code}).
Reply with the translation only, preserving line breaks and formatting.

Text:
{text}`

type Translator struct {
	gen    docqa.Generator
	prompt *docqa.Prompt
	log    *zap.Logger
}

func NewTranslator(gen docqa.Generator) *Translator {
	return &Translator{
		gen:    gen,
		prompt: docqa.NewPrompt(DefaultTemplate),
		log: zap.L().With(
			zap.String("service", "translator"),
		),
	}
}

// Translate translates text between two supported language names. Identical
// languages return text unchanged. Long text is translated sentence group
// by sentence group.
func (t *Translator) Translate(ctx context.Context, text string, source string, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", docqa.ErrEmptyText
	}

	sourceCode, ok := Code(source)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, source)
	}

	targetCode, ok := Code(target)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, target)
	}

	if sourceCode == targetCode {
		return text, nil
	}

	log := t.log.With(
		zap.String("action", "translate"),
		zap.String("source", sourceCode),
		zap.String("target", targetCode),
	)

	pieces := Split(text, MaxPieceChars)
	translated := make([]string, len(pieces))

	for i, piece := range pieces {
		prompt, err := t.prompt.Render(ctx, map[string]any{
			"source":      source,
			"source_code": sourceCode,
			"target":      target,
			"target_code": targetCode,
			"text":        piece,
		})
		if err != nil {
			return "", err
		}

		out, err := t.gen.Generate(ctx, prompt)
		if err != nil {
			log.Error(err.Error())
			return "", fmt.Errorf("%w: %w", docqa.ErrGenerationUnavailable, err)
		}

		translated[i] = strings.TrimSpace(out)
	}

	log.Info("text translated", zap.Int("pieces", len(pieces)))
	return strings.Join(translated, " "), nil
}

// Split groups sentences into pieces of at most max characters. A single
// sentence longer than max becomes its own piece.
func Split(text string, max int) []string {
	if utf8.RuneCountInString(text) <= max {
		return []string{text}
	}

	var (
		pieces  []string
		current strings.Builder
	)

	for _, sentence := range strings.SplitAfter(text, ". ") {
		if current.Len() > 0 && utf8.RuneCountInString(current.String())+utf8.RuneCountInString(sentence) > max {
			pieces = append(pieces, strings.TrimSpace(current.String()))
			current.Reset()
		}

		current.WriteString(sentence)
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		pieces = append(pieces, s)
	}

	return pieces
}
