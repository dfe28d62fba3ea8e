package chromem

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/philippgille/chromem-go"
	"golang.org/x/sync/errgroup"

	"github.com/flarexio/docqa/vector"
)

const defaultConcurrency = 4

func NewChromemVectorDB(cfg vector.Config, embed vector.EmbeddingFunc) (vector.VectorDB, error) {
	if embed == nil {
		return nil, errors.New("embedding function not set")
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &chromemVectorDB{
		db:          chromem.NewDB(),
		embed:       embed,
		concurrency: concurrency,
	}, nil
}

type chromemVectorDB struct {
	db          *chromem.DB
	embed       vector.EmbeddingFunc
	concurrency int
}

func (v *chromemVectorDB) CreateIndex(name string) (vector.Index, error) {
	c, err := v.db.CreateCollection(name, nil, chromem.EmbeddingFunc(v.embed))
	if err != nil {
		return nil, err
	}

	return &index{
		collection:  c,
		embed:       v.embed,
		concurrency: v.concurrency,
		positions:   make(map[string]int),
		ordinals:    make(map[string]int),
	}, nil
}

func (v *chromemVectorDB) DropIndex(name string) error {
	return v.db.DeleteCollection(name)
}

type index struct {
	collection  *chromem.Collection
	embed       vector.EmbeddingFunc
	concurrency int

	chunks    []vector.Chunk
	positions map[string]int // chunk ID -> insertion position
	ordinals  map[string]int // source -> next ordinal
	dimension int
}

func (idx *index) Insert(ctx context.Context, chunks []vector.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	for _, chunk := range chunks {
		if chunk.ID == "" {
			return errors.New("chunk ID is required")
		}

		if _, ok := idx.positions[chunk.ID]; ok {
			return fmt.Errorf("duplicate chunk ID: %s", chunk.ID)
		}
	}

	embeddings := make([][]float32, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.concurrency)

	for i, chunk := range chunks {
		g.Go(func() error {
			embedding, err := idx.embed(gctx, chunk.Text)
			if err != nil {
				return err
			}

			embeddings[i] = embedding
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return vector.EmbeddingError(err)
	}

	dimension := idx.dimension
	for _, embedding := range embeddings {
		if dimension == 0 {
			dimension = len(embedding)
		}

		if len(embedding) == 0 || len(embedding) != dimension {
			return vector.EmbeddingError(vector.ErrDimensionMismatch)
		}
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:        chunk.ID,
			Content:   chunk.Text,
			Embedding: embeddings[i],
			Metadata: map[string]string{
				"source":  chunk.Source,
				"ordinal": fmt.Sprintf("%d", chunk.Ordinal),
			},
		}
	}

	// Documents that reach the collection before a failure stay unknown to
	// positions, so Search never surfaces them.
	if err := idx.collection.AddDocuments(ctx, docs, idx.concurrency); err != nil {
		return err
	}

	for _, chunk := range chunks {
		idx.positions[chunk.ID] = len(idx.chunks)
		idx.chunks = append(idx.chunks, chunk)

		if next := chunk.Ordinal + 1; next > idx.ordinals[chunk.Source] {
			idx.ordinals[chunk.Source] = next
		}
	}

	idx.dimension = dimension

	return nil
}

func (idx *index) Search(ctx context.Context, query string, k int) ([]vector.Result, error) {
	if k < 1 {
		return nil, vector.ErrInvalidK
	}

	n := idx.collection.Count()
	if n == 0 || len(idx.chunks) == 0 {
		return []vector.Result{}, nil
	}

	embedding, err := idx.embed(ctx, query)
	if err != nil {
		return nil, vector.EmbeddingError(err)
	}

	if len(embedding) != idx.dimension {
		return nil, vector.EmbeddingError(vector.ErrDimensionMismatch)
	}

	// chromem orders equal similarities arbitrarily, so rank everything and
	// break ties by insertion position.
	results, err := idx.collection.QueryEmbedding(ctx, embedding, n, nil, nil)
	if err != nil {
		return nil, err
	}

	ranked := make([]vector.Result, 0, len(results))
	for _, result := range results {
		pos, ok := idx.positions[result.ID]
		if !ok {
			continue
		}

		ranked = append(ranked, vector.Result{
			Chunk: idx.chunks[pos],
			Score: result.Similarity,
		})
	}

	slices.SortFunc(ranked, func(a, b vector.Result) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		return cmp.Compare(idx.positions[a.Chunk.ID], idx.positions[b.Chunk.ID])
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}

	return ranked, nil
}

func (idx *index) AllChunks(ctx context.Context) ([]vector.Chunk, error) {
	chunks := make([]vector.Chunk, len(idx.chunks))
	copy(chunks, idx.chunks)

	return chunks, nil
}

func (idx *index) NextOrdinal(source string) int {
	return idx.ordinals[source]
}

func (idx *index) Count() int {
	return len(idx.chunks)
}
