package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

var (
	ErrMissingAPIKey   = errors.New("llm api key is required")
	ErrEmptyCompletion = errors.New("empty completion")
)

type Config struct {
	BaseURL     string        `yaml:"baseURL"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"-"`
	MaxTokens   int           `yaml:"maxTokens"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	System      string        `yaml:"system,omitempty"`
}

// NewChatModel creates an OpenAI-compatible chat model (OpenAI, Groq, vLLM, ...).
func NewChatModel(ctx context.Context, cfg Config) (model.BaseChatModel, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	modelCfg := &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	}

	if cfg.MaxTokens > 0 {
		maxTokens := cfg.MaxTokens
		modelCfg.MaxTokens = &maxTokens
	}

	if cfg.Temperature > 0 {
		temperature := cfg.Temperature
		modelCfg.Temperature = &temperature
	}

	chatModel, err := openai.NewChatModel(ctx, modelCfg)
	if err != nil {
		return nil, err
	}

	return chatModel, nil
}

// ChatGenerator turns a chat model into a prompt-in, text-out generator.
type ChatGenerator struct {
	model  model.BaseChatModel
	system string
}

func NewChatGenerator(m model.BaseChatModel, system string) *ChatGenerator {
	return &ChatGenerator{
		model:  m,
		system: system,
	}
}

func (g *ChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := make([]*schema.Message, 0, 2)
	if g.system != "" {
		messages = append(messages, schema.SystemMessage(g.system))
	}

	messages = append(messages, schema.UserMessage(prompt))

	msg, err := g.model.Generate(ctx, messages)
	if err != nil {
		return "", err
	}

	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", ErrEmptyCompletion
	}

	return msg.Content, nil
}
