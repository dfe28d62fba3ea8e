package docqa

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// Templates use FString placeholders; literal braces must be doubled.
const DefaultAnswerTemplate = `You are a helpful assistant. Use the context provided below to answer the question accurately and comprehensively.

**Important formatting guidelines:**
- Structure your response with clear paragraphs
- Use bullet points (•) for lists when appropriate
- Use numbered lists (1., 2., 3.) for sequential information
- Use **bold text** for important terms or concepts
- Keep paragraphs concise and well-organized

Answer only from the context. If the answer cannot be found in the context, say "I don't have enough information in the provided documents to answer this question."

Context:
{context}

Question:
{question}

Answer:`

const DefaultSummaryTemplate = `You are a professional summarizer. {instruction}

Text: {text}

Summary:`

type Prompt struct {
	template prompt.ChatTemplate
}

func NewPrompt(template string) *Prompt {
	return &Prompt{
		template: prompt.FromMessages(schema.FString, schema.UserMessage(template)),
	}
}

func (p *Prompt) Render(ctx context.Context, vars map[string]any) (string, error) {
	messages, err := p.template.Format(ctx, vars)
	if err != nil {
		return "", err
	}

	if len(messages) == 0 {
		return "", errors.New("prompt rendered no messages")
	}

	parts := make([]string, len(messages))
	for i, msg := range messages {
		parts[i] = msg.Content
	}

	return strings.Join(parts, "\n\n"), nil
}
