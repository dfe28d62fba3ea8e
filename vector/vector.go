package vector

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	ErrPortUnavailable      = errors.New("port unavailable")
	ErrDimensionMismatch    = errors.New("embedding dimension mismatch")
	ErrInvalidK             = errors.New("k must be at least 1")
)

type Config struct {
	Collection  string `yaml:"collection"`
	Concurrency int    `yaml:"concurrency"`
}

// EmbeddingFunc maps text to a fixed-dimension vector. It has the same shape
// as chromem.EmbeddingFunc.
type EmbeddingFunc func(ctx context.Context, text string) ([]float32, error)

type VectorDB interface {
	CreateIndex(name string) (Index, error)
	DropIndex(name string) error
}

// Index stores chunks with their embeddings for one session.
// Implementations are not safe for concurrent use; the session store
// serializes mutations against reads.
type Index interface {
	// Insert embeds every chunk and appends the batch. Either the whole batch
	// becomes visible or none of it does.
	Insert(ctx context.Context, chunks []Chunk) error

	// Search returns at most k chunks by descending similarity to query.
	// Ties go to the chunk inserted first.
	Search(ctx context.Context, query string, k int) ([]Result, error)

	// AllChunks enumerates every stored chunk in insertion order.
	AllChunks(ctx context.Context) ([]Chunk, error)

	// NextOrdinal is the ordinal the next chunk from source should take.
	NextOrdinal(source string) int

	Count() int
}

type Chunk struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Source  string `json:"source"`
	Ordinal int    `json:"ordinal"`

	// Overlap is the number of leading characters of Text repeated from the
	// previous chunk of the same source.
	Overlap int `json:"overlap,omitempty"`
}

type Result struct {
	Chunk Chunk   `json:"chunk"`
	Score float32 `json:"score"`
}

// EmbeddingError classifies err as an embedding port failure.
func EmbeddingError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrEmbeddingUnavailable) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrPortUnavailable) {
		return fmt.Errorf("%w: %w: %w", ErrEmbeddingUnavailable, ErrPortUnavailable, err)
	}

	return fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
}
