package docqa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/flarexio/docqa/vector"
)

// Generator is the text generation port.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Answerer struct {
	store   *SessionStore
	gen     Generator
	prompt  *Prompt
	topK    int
	timeout time.Duration
	log     *zap.Logger
}

func NewAnswerer(store *SessionStore, gen Generator, cfg AnswerConfig, timeout time.Duration) *Answerer {
	topK := cfg.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	template := cfg.Template
	if template == "" {
		template = DefaultAnswerTemplate
	}

	return &Answerer{
		store:   store,
		gen:     gen,
		prompt:  NewPrompt(template),
		topK:    topK,
		timeout: timeout,
		log: zap.L().With(
			zap.String("component", "answerer"),
		),
	}
}

// Ask answers question from the session's documents. Port failures degrade
// to an apology string; only structural problems are returned as errors.
func (a *Answerer) Ask(ctx context.Context, sessionID string, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	log := a.log.With(
		zap.String("action", "ask"),
		zap.String("session_id", sessionID),
	)

	results, err := a.store.Search(ctx, sessionID, question, a.topK)
	if err != nil {
		if errors.Is(err, ErrEmbeddingUnavailable) {
			log.Warn(err.Error())
			return SearchApology, nil
		}

		return "", err
	}

	if len(results) == 0 {
		return NoRelevantInformation, nil
	}

	prompt, err := a.prompt.Render(ctx, map[string]any{
		"context":  BuildContext(results),
		"question": question,
	})
	if err != nil {
		return "", err
	}

	answer, err := generate(ctx, a.gen, a.timeout, prompt)
	if err != nil {
		log.Warn(err.Error())
		return GenerationApology, nil
	}

	return answer, nil
}

// BuildContext attributes each retrieved chunk to its source document.
func BuildContext(results []vector.Result) string {
	parts := make([]string, len(results))
	for i, result := range results {
		parts[i] = result.Chunk.Source + ": " + result.Chunk.Text
	}

	return strings.Join(parts, "\n\n")
}

// generate calls the generation port under timeout. The call is abandoned
// when the deadline passes even if the port ignores its context.
func generate(ctx context.Context, gen Generator, timeout time.Duration, prompt string) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type reply struct {
		text string
		err  error
	}

	ch := make(chan reply, 1)
	go func() {
		text, err := gen.Generate(ctx, prompt)
		ch <- reply{text, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			if errors.Is(r.err, context.DeadlineExceeded) {
				return "", fmt.Errorf("%w: %w: %w", ErrGenerationUnavailable, ErrPortUnavailable, r.err)
			}

			return "", fmt.Errorf("%w: %w", ErrGenerationUnavailable, r.err)
		}

		return r.text, nil

	case <-ctx.Done():
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w: %w", ErrGenerationUnavailable, ErrPortUnavailable, err)
		}

		return "", fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}
}
