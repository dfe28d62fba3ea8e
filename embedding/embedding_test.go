package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"

	"github.com/flarexio/docqa/vector"
)

type fakeEmbedder struct {
	vectors [][]float64
	err     error
}

func (e *fakeEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	return e.vectors, e.err
}

func TestFromEmbedder(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	fn := FromEmbedder(&fakeEmbedder{vectors: [][]float64{{0.5, 0.25}}})

	v, err := fn(ctx, "hello")
	assert.NoError(err)
	assert.Equal([]float32{0.5, 0.25}, v)

	fn = FromEmbedder(&fakeEmbedder{})
	_, err = fn(ctx, "hello")
	assert.ErrorIs(err, ErrNoEmbedding)

	upstream := errors.New("rate limited")
	fn = FromEmbedder(&fakeEmbedder{err: upstream})
	_, err = fn(ctx, "hello")
	assert.ErrorIs(err, upstream)
}

func TestWithTimeout(t *testing.T) {
	assert := assert.New(t)

	slow := func(ctx context.Context, text string) ([]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	fn := WithTimeout(slow, 10*time.Millisecond)

	start := time.Now()
	_, err := fn(context.Background(), "hello")

	assert.ErrorIs(err, vector.ErrPortUnavailable)
	assert.ErrorIs(err, vector.ErrEmbeddingUnavailable)
	assert.Less(time.Since(start), time.Second)
}

func TestWithTimeoutIgnoredContext(t *testing.T) {
	assert := assert.New(t)

	stuck := func(ctx context.Context, text string) ([]float32, error) {
		time.Sleep(500 * time.Millisecond)
		return []float32{1}, nil
	}

	start := time.Now()
	_, err := WithTimeout(stuck, 10*time.Millisecond)(context.Background(), "hello")

	assert.ErrorIs(err, vector.ErrPortUnavailable)
	assert.Less(time.Since(start), 400*time.Millisecond)
}

func TestWithTimeoutPassesThrough(t *testing.T) {
	assert := assert.New(t)

	upstream := errors.New("bad request")
	failing := func(ctx context.Context, text string) ([]float32, error) {
		return nil, upstream
	}

	_, err := WithTimeout(failing, time.Second)(context.Background(), "hello")
	assert.ErrorIs(err, upstream)
	assert.NotErrorIs(err, vector.ErrPortUnavailable)
}

func TestWithCache(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	calls := 0
	counting := func(ctx context.Context, text string) ([]float32, error) {
		calls++
		return []float32{float32(len(text))}, nil
	}

	fn := WithCache(counting, time.Minute)

	v1, err := fn(ctx, "question")
	assert.NoError(err)

	v1[0] = 42

	v2, err := fn(ctx, "question")
	assert.NoError(err)
	assert.Equal([]float32{8}, v2)

	_, err = fn(ctx, "other")
	assert.NoError(err)

	assert.Equal(2, calls)
}

func TestWithCacheSkipsErrors(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	calls := 0
	failing := func(ctx context.Context, text string) ([]float32, error) {
		calls++
		return nil, errors.New("unavailable")
	}

	fn := WithCache(failing, time.Minute)

	_, err := fn(ctx, "q")
	assert.Error(err)
	_, err = fn(ctx, "q")
	assert.Error(err)

	assert.Equal(2, calls)
}

func TestNewEmbeddingFunc(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	_, err := NewEmbeddingFunc(ctx, Config{Provider: ProviderOpenAI})
	assert.ErrorIs(err, ErrMissingAPIKey)

	_, err = NewEmbeddingFunc(ctx, Config{Provider: "word2vec"})
	assert.ErrorIs(err, ErrUnsupportedProvider)

	fn, err := NewEmbeddingFunc(ctx, Config{
		Provider: ProviderOllama,
		Model:    "nomic-embed-text",
		BaseURL:  "http://localhost:11434/api",
		Timeout:  time.Second,
		CacheTTL: time.Minute,
	})
	assert.NoError(err)
	assert.NotNil(fn)
}
