package docqa

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

type Summarizer struct {
	gen      Generator
	prompt   *Prompt
	maxChars int
	timeout  time.Duration
	log      *zap.Logger
}

func NewSummarizer(gen Generator, cfg SummaryConfig, timeout time.Duration) *Summarizer {
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultSummaryMaxChars
	}

	template := cfg.Template
	if template == "" {
		template = DefaultSummaryTemplate
	}

	return &Summarizer{
		gen:      gen,
		prompt:   NewPrompt(template),
		maxChars: maxChars,
		timeout:  timeout,
		log: zap.L().With(
			zap.String("component", "summarizer"),
		),
	}
}

// Summarize asks the generation port to summarize text following
// instruction. Only the first maxChars characters are sent: documents are
// assumed to lead with their most important content, which is a
// simplification rather than a relevance guarantee.
func (s *Summarizer) Summarize(ctx context.Context, text string, instruction string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}

	prompt, err := s.prompt.Render(ctx, map[string]any{
		"instruction": instruction,
		"text":        Truncate(text, s.maxChars),
	})
	if err != nil {
		return "", err
	}

	summary, err := generate(ctx, s.gen, s.timeout, prompt)
	if err != nil {
		s.log.Warn(err.Error(), zap.String("action", "summarize"))
		return SummaryApology, nil
	}

	return summary, nil
}

// Truncate keeps at most max characters of text.
func Truncate(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}

	n := 0
	for i := range text {
		if n == max {
			return text[:i]
		}
		n++
	}

	return text
}
