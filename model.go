package docqa

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flarexio/docqa/chunker"
	"github.com/flarexio/docqa/embedding"
	"github.com/flarexio/docqa/llm"
	"github.com/flarexio/docqa/vector"
)

var (
	ErrInvalidSessionID   = errors.New("invalid session ID")
	ErrEmptyDocument      = errors.New("document has no indexable text")
	ErrNoDocuments        = errors.New("no documents found, upload documents first")
	ErrEmptyQuestion      = errors.New("question cannot be empty")
	ErrEmptyText          = errors.New("text cannot be empty")
	ErrUnknownSummarySize = errors.New("unknown summary size")

	ErrGenerationUnavailable = errors.New("generation unavailable")
	ErrEmbeddingUnavailable  = vector.ErrEmbeddingUnavailable
	ErrPortUnavailable       = vector.ErrPortUnavailable
	ErrDimensionMismatch     = vector.ErrDimensionMismatch
	ErrInvalidK              = vector.ErrInvalidK
)

// Degraded answers returned in place of port failures.
const (
	NoRelevantInformation = "I couldn't find relevant information in the uploaded documents to answer your question."
	SearchApology         = "Error searching through documents. Please try again."
	GenerationApology     = "Sorry for the inconvenience. We are currently experiencing high demand on our AI services. " +
		"Please try again in a few moments. If the issue persists, our rate limits may have been exceeded."
	SummaryApology = "Sorry, we could not generate a summary right now. Please try again in a few moments."
)

type Config struct {
	Chunker   chunker.Config   `yaml:"chunker"`
	Vector    vector.Config    `yaml:"vector"`
	Embedding embedding.Config `yaml:"embedding"`
	LLM       llm.Config       `yaml:"llm"`
	Answer    AnswerConfig     `yaml:"answer"`
	Summary   SummaryConfig    `yaml:"summary"`
	History   HistoryConfig    `yaml:"history"`
	Log       LogConfig        `yaml:"log"`
}

type AnswerConfig struct {
	TopK     int    `yaml:"topK"`
	Template string `yaml:"template,omitempty"`
}

type SummaryConfig struct {
	MaxChars int    `yaml:"maxChars"`
	Template string `yaml:"template,omitempty"`
}

// HistoryConfig controls chat history retention. A zero TTL keeps every
// history until its session is cleared.
type HistoryConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"`
	Production bool   `yaml:"production"`
}

const (
	DefaultTopK              = 4
	DefaultSummaryMaxChars   = 12000
	DefaultCollection        = "session"
	DefaultGenerationTimeout = 60 * time.Second
	DefaultEmbeddingTimeout  = 30 * time.Second
)

// Normalize fills zero values with defaults.
func (cfg *Config) Normalize() {
	if cfg.Chunker.ChunkSize <= 0 {
		cfg.Chunker.ChunkSize = chunker.DefaultChunkSize
	}

	if cfg.Chunker.ChunkOverlap == nil {
		cfg.Chunker.ChunkOverlap = chunker.Overlap(chunker.DefaultChunkOverlap)
	}

	if cfg.Vector.Collection == "" {
		cfg.Vector.Collection = DefaultCollection
	}

	if cfg.Embedding.Timeout <= 0 {
		cfg.Embedding.Timeout = DefaultEmbeddingTimeout
	}

	if cfg.LLM.Timeout <= 0 {
		cfg.LLM.Timeout = DefaultGenerationTimeout
	}

	if cfg.Answer.TopK <= 0 {
		cfg.Answer.TopK = DefaultTopK
	}

	if cfg.Answer.Template == "" {
		cfg.Answer.Template = DefaultAnswerTemplate
	}

	if cfg.Summary.MaxChars <= 0 {
		cfg.Summary.MaxChars = DefaultSummaryMaxChars
	}

	if cfg.Summary.Template == "" {
		cfg.Summary.Template = DefaultSummaryTemplate
	}
}

type SummarySize string

const (
	SummaryShort         SummarySize = "short"
	SummaryMedium        SummarySize = "medium"
	SummaryDetailed      SummarySize = "detailed"
	SummaryComprehensive SummarySize = "comprehensive"
)

var summaryInstructions = map[SummarySize]string{
	SummaryShort:    "Write a very short 1-2 line summary.",
	SummaryMedium:   "Write a concise summary in one paragraph.",
	SummaryDetailed: "Write a detailed multi-paragraph summary covering all important points.",
	SummaryComprehensive: `Please provide a comprehensive summary of the following text.

**Formatting guidelines:**
- Structure your summary with clear paragraphs
- Use bullet points (•) for key highlights
- Use **bold text** for important concepts
- Use proper line breaks between topics
- Keep the summary well-organized and easy to read

Focus on the main points, key findings, and important details.`,
}

// ParseSummarySize accepts either the short name or the display label
// ("Short (1-2 lines)"). An empty string selects SummaryMedium.
func ParseSummarySize(s string) (SummarySize, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SummaryMedium, nil
	}

	if name, _, ok := strings.Cut(s, " ("); ok {
		s = name
	}

	size := SummarySize(s)
	if _, ok := summaryInstructions[size]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSummarySize, s)
	}

	return size, nil
}

func (s SummarySize) Instruction() string {
	if instruction, ok := summaryInstructions[s]; ok {
		return instruction
	}

	return summaryInstructions[SummaryMedium]
}

func (s SummarySize) Label() string {
	switch s {
	case SummaryShort:
		return "Short (1-2 lines)"
	case SummaryDetailed:
		return "Detailed (multi-paragraph)"
	case SummaryComprehensive:
		return "Comprehensive"
	default:
		return "Medium (1 paragraph)"
	}
}

func (s *SummarySize) UnmarshalText(text []byte) error {
	size, err := ParseSummarySize(string(text))
	if err != nil {
		return err
	}

	*s = size
	return nil
}
