package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

type fakeChatModel struct {
	reply    *schema.Message
	err      error
	received []*schema.Message
}

func (m *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.received = input
	return m.reply, m.err
}

func (m *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func TestChatGeneratorGenerate(t *testing.T) {
	assert := assert.New(t)

	m := &fakeChatModel{reply: schema.AssistantMessage("the answer", nil)}
	g := NewChatGenerator(m, "be brief")

	out, err := g.Generate(context.Background(), "what?")
	assert.NoError(err)
	assert.Equal("the answer", out)

	if assert.Len(m.received, 2) {
		assert.Equal(schema.System, m.received[0].Role)
		assert.Equal("be brief", m.received[0].Content)
		assert.Equal(schema.User, m.received[1].Role)
		assert.Equal("what?", m.received[1].Content)
	}
}

func TestChatGeneratorWithoutSystem(t *testing.T) {
	assert := assert.New(t)

	m := &fakeChatModel{reply: schema.AssistantMessage("ok", nil)}
	g := NewChatGenerator(m, "")

	_, err := g.Generate(context.Background(), "hi")
	assert.NoError(err)
	assert.Len(m.received, 1)
}

func TestChatGeneratorErrors(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	upstream := errors.New("429 too many requests")
	_, err := NewChatGenerator(&fakeChatModel{err: upstream}, "").Generate(ctx, "hi")
	assert.ErrorIs(err, upstream)

	_, err = NewChatGenerator(&fakeChatModel{reply: schema.AssistantMessage("  ", nil)}, "").Generate(ctx, "hi")
	assert.ErrorIs(err, ErrEmptyCompletion)

	_, err = NewChatGenerator(&fakeChatModel{}, "").Generate(ctx, "hi")
	assert.ErrorIs(err, ErrEmptyCompletion)
}

func TestNewChatModelRequiresKey(t *testing.T) {
	_, err := NewChatModel(context.Background(), Config{Model: "llama3-70b-8192"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
