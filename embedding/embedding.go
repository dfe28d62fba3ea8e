package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/patrickmn/go-cache"
	"github.com/philippgille/chromem-go"

	"github.com/flarexio/docqa/vector"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported embedding provider")
	ErrMissingAPIKey       = errors.New("embedding api key is required")
	ErrNoEmbedding         = errors.New("no embedding returned")
)

type Provider string

const (
	ProviderOpenAI       Provider = "openai"
	ProviderOpenAICompat Provider = "openai-compat"
	ProviderOllama       Provider = "ollama"
)

type Config struct {
	Provider Provider      `yaml:"provider"`
	BaseURL  string        `yaml:"baseURL"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"-"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// NewEmbeddingFunc builds the embedding port for cfg, wrapped with the
// configured timeout and cache.
func NewEmbeddingFunc(ctx context.Context, cfg Config) (vector.EmbeddingFunc, error) {
	var fn vector.EmbeddingFunc

	switch cfg.Provider {
	case ProviderOpenAI, "":
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}

		embedder, err := openai.NewEmbedder(ctx, &openai.EmbeddingConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, err
		}

		fn = FromEmbedder(embedder)

	case ProviderOpenAICompat:
		fn = vector.EmbeddingFunc(chromem.NewEmbeddingFuncOpenAICompat(cfg.BaseURL, cfg.APIKey, cfg.Model, nil))

	case ProviderOllama:
		fn = vector.EmbeddingFunc(chromem.NewEmbeddingFuncOllama(cfg.Model, cfg.BaseURL))

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}

	if cfg.Timeout > 0 {
		fn = WithTimeout(fn, cfg.Timeout)
	}

	if cfg.CacheTTL > 0 {
		fn = WithCache(fn, cfg.CacheTTL)
	}

	return fn, nil
}

// FromEmbedder adapts an eino embedder to a single-text embedding function.
func FromEmbedder(embedder embedding.Embedder) vector.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vectors, err := embedder.EmbedStrings(ctx, []string{text})
		if err != nil {
			return nil, err
		}

		if len(vectors) == 0 || len(vectors[0]) == 0 {
			return nil, ErrNoEmbedding
		}

		v := make([]float32, len(vectors[0]))
		for i, x := range vectors[0] {
			v[i] = float32(x)
		}

		return v, nil
	}
}

// WithTimeout bounds every call to fn. A call that runs out of time fails
// with vector.ErrPortUnavailable, even when fn ignores its context.
func WithTimeout(fn vector.EmbeddingFunc, timeout time.Duration) vector.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		type reply struct {
			v   []float32
			err error
		}

		ch := make(chan reply, 1)
		go func() {
			v, err := fn(ctx, text)
			ch <- reply{v, err}
		}()

		var r reply
		select {
		case r = <-ch:
		case <-ctx.Done():
			r.err = ctx.Err()
		}

		if r.err != nil {
			if errors.Is(r.err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %w: %w", vector.ErrEmbeddingUnavailable, vector.ErrPortUnavailable, r.err)
			}

			return nil, r.err
		}

		return r.v, nil
	}
}

// WithCache memoizes embeddings by text digest. Repeated questions and
// re-uploaded documents skip the upstream call.
func WithCache(fn vector.EmbeddingFunc, ttl time.Duration) vector.EmbeddingFunc {
	c := cache.New(ttl, 2*ttl)

	return func(ctx context.Context, text string) ([]float32, error) {
		sum := sha256.Sum256([]byte(text))
		key := hex.EncodeToString(sum[:])

		if x, found := c.Get(key); found {
			if v, ok := x.([]float32); ok {
				return slices.Clone(v), nil
			}
		}

		v, err := fn(ctx, text)
		if err != nil {
			return nil, err
		}

		c.Set(key, slices.Clone(v), cache.DefaultExpiration)
		return v, nil
	}
}
