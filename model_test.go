package docqa

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/flarexio/docqa/vector"
)

func TestParseSummarySize(t *testing.T) {
	assert := assert.New(t)

	size, err := ParseSummarySize("")
	assert.NoError(err)
	assert.Equal(SummaryMedium, size)

	size, err = ParseSummarySize("Short (1-2 lines)")
	assert.NoError(err)
	assert.Equal(SummaryShort, size)

	size, err = ParseSummarySize(" Comprehensive ")
	assert.NoError(err)
	assert.Equal(SummaryComprehensive, size)

	_, err = ParseSummarySize("epic")
	assert.ErrorIs(err, ErrUnknownSummarySize)

	assert.Equal("Detailed (multi-paragraph)", SummaryDetailed.Label())
	assert.Equal(SummaryMedium.Instruction(), SummarySize("other").Instruction())
}

func TestConfigUnmarshal(t *testing.T) {
	assert := assert.New(t)

	raw := `
chunker:
  chunkSize: 800
  chunkOverlap: 100
vector:
  collection: docs
embedding:
  provider: ollama
  model: nomic-embed-text
  timeout: 5s
llm:
  model: gpt-4o-mini
  maxTokens: 512
answer:
  topK: 6
summary:
  maxChars: 4000
`

	var cfg Config
	err := yaml.Unmarshal([]byte(raw), &cfg)
	if !assert.NoError(err) {
		return
	}

	cfg.Normalize()

	assert.Equal(800, cfg.Chunker.ChunkSize)
	assert.Equal(100, *cfg.Chunker.ChunkOverlap)
	assert.Equal("docs", cfg.Vector.Collection)
	assert.Equal(5*time.Second, cfg.Embedding.Timeout)
	assert.Equal(DefaultGenerationTimeout, cfg.LLM.Timeout)
	assert.Equal(6, cfg.Answer.TopK)
	assert.Equal(DefaultAnswerTemplate, cfg.Answer.Template)
	assert.Equal(4000, cfg.Summary.MaxChars)
}

func TestConfigNormalizeDefaults(t *testing.T) {
	assert := assert.New(t)

	var cfg Config
	cfg.Normalize()

	assert.Equal(1500, cfg.Chunker.ChunkSize)
	assert.Equal(300, *cfg.Chunker.ChunkOverlap)
	assert.Equal(DefaultCollection, cfg.Vector.Collection)
	assert.Equal(DefaultTopK, cfg.Answer.TopK)
	assert.Equal(DefaultSummaryMaxChars, cfg.Summary.MaxChars)
	assert.Equal(DefaultSummaryTemplate, cfg.Summary.Template)
}

func TestConfigZeroOverlap(t *testing.T) {
	assert := assert.New(t)

	raw := `
chunker:
  chunkSize: 500
  chunkOverlap: 0
`

	var cfg Config
	err := yaml.Unmarshal([]byte(raw), &cfg)
	if !assert.NoError(err) {
		return
	}

	cfg.Normalize()

	assert.Equal(500, cfg.Chunker.ChunkSize)
	if assert.NotNil(cfg.Chunker.ChunkOverlap) {
		assert.Equal(0, *cfg.Chunker.ChunkOverlap)
	}
}

func TestTruncate(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("abc", Truncate("abc", 5))
	assert.Equal("ab", Truncate("abc", 2))
	assert.Equal("日本", Truncate("日本語", 2))
	assert.Equal("abc", Truncate("abc", 0))
}

func TestReconstruct(t *testing.T) {
	assert := assert.New(t)

	chunks := []vector.Chunk{
		{Text: "one two three ", Source: "a.txt", Ordinal: 0},
		{Text: "b.txt stands alone", Source: "b.txt", Ordinal: 0},
		{Text: "three four five", Source: "a.txt", Ordinal: 1, Overlap: 6},
	}

	assert.Equal("one two three four five\n\nb.txt stands alone", Reconstruct(chunks))
	assert.Equal("", Reconstruct(nil))
}

func TestBuildContext(t *testing.T) {
	assert := assert.New(t)

	results := []vector.Result{
		{Chunk: vector.Chunk{Text: "Alpha.", Source: "a.txt"}, Score: 0.9},
		{Chunk: vector.Chunk{Text: "Beta.", Source: "b.pdf"}, Score: 0.5},
	}

	assert.Equal("a.txt: Alpha.\n\nb.pdf: Beta.", BuildContext(results))
}

func TestPromptRender(t *testing.T) {
	assert := assert.New(t)

	p := NewPrompt(DefaultSummaryTemplate)

	out, err := p.Render(context.Background(), map[string]any{
		"instruction": "Be brief.",
		"text":        "A {braced} body.",
	})
	assert.NoError(err)
	assert.Contains(out, "Be brief.")
	assert.Contains(out, "A {braced} body.")
}
