package docqa

import (
	"context"
	"errors"
	"strings"

	"github.com/flarexio/docqa/chunker"
	"github.com/flarexio/docqa/vector"
)

// Service defines the core logic of DocQA.
type Service interface {

	// Close drops every session index.
	Close() error

	// AddDocument chunks and indexes content under the session, returning
	// the number of chunks stored.
	AddDocument(ctx context.Context, sessionID string, content string, source string) (int, error)

	// Ask answers a question from the session's documents.
	Ask(ctx context.Context, sessionID string, question string) (string, error)

	// GetDocuments returns the text of every chunk in the session.
	GetDocuments(ctx context.Context, sessionID string) ([]string, error)

	// Summarize summarizes user supplied text.
	Summarize(ctx context.Context, text string, size SummarySize) (string, error)

	// SummarizeSession summarizes everything uploaded to the session.
	SummarizeSession(ctx context.Context, sessionID string, size SummarySize) (string, error)

	// History returns the questions asked in the session with their answers,
	// oldest first.
	History(ctx context.Context, sessionID string) ([]Exchange, error)

	// ClearSession drops the session documents and chat history.
	ClearSession(ctx context.Context, sessionID string) error

	// HasSession reports whether the session holds committed documents.
	HasSession(ctx context.Context, sessionID string) bool
}

type ServiceMiddleware func(Service) Service

func NewService(cfg Config, db vector.VectorDB, gen Generator) (Service, error) {
	if db == nil {
		return nil, errors.New("vector database not set")
	}

	if gen == nil {
		return nil, errors.New("generator not set")
	}

	cfg.Normalize()

	store := NewSessionStore(db, chunker.NewChunker(cfg.Chunker), cfg.Vector.Collection)

	return &service{
		store:      store,
		history:    NewHistoryStore(cfg.History.TTL),
		answerer:   NewAnswerer(store, gen, cfg.Answer, cfg.LLM.Timeout),
		summarizer: NewSummarizer(gen, cfg.Summary, cfg.LLM.Timeout),
	}, nil
}

type service struct {
	store      *SessionStore
	history    *HistoryStore
	answerer   *Answerer
	summarizer *Summarizer
}

func (svc *service) Close() error {
	svc.history.Flush()
	return svc.store.Close()
}

func (svc *service) AddDocument(ctx context.Context, sessionID string, content string, source string) (int, error) {
	return svc.store.AddDocument(ctx, sessionID, content, source)
}

func (svc *service) Ask(ctx context.Context, sessionID string, question string) (string, error) {
	if sessionID == "" {
		return "", ErrInvalidSessionID
	}

	answer, err := svc.answerer.Ask(ctx, sessionID, question)
	if err != nil {
		return "", err
	}

	svc.history.Append(sessionID, strings.TrimSpace(question), answer)
	return answer, nil
}

func (svc *service) GetDocuments(ctx context.Context, sessionID string) ([]string, error) {
	if sessionID == "" {
		return nil, ErrInvalidSessionID
	}

	return svc.store.Documents(ctx, sessionID)
}

func (svc *service) Summarize(ctx context.Context, text string, size SummarySize) (string, error) {
	return svc.summarizer.Summarize(ctx, text, size.Instruction())
}

func (svc *service) SummarizeSession(ctx context.Context, sessionID string, size SummarySize) (string, error) {
	if sessionID == "" {
		return "", ErrInvalidSessionID
	}

	chunks, err := svc.store.Chunks(ctx, sessionID)
	if err != nil {
		return "", err
	}

	text := Reconstruct(chunks)
	if text == "" {
		return "", ErrNoDocuments
	}

	return svc.summarizer.Summarize(ctx, text, size.Instruction())
}

func (svc *service) History(ctx context.Context, sessionID string) ([]Exchange, error) {
	if sessionID == "" {
		return nil, ErrInvalidSessionID
	}

	return svc.history.Get(sessionID), nil
}

func (svc *service) ClearSession(ctx context.Context, sessionID string) error {
	svc.history.Clear(sessionID)
	return svc.store.Clear(ctx, sessionID)
}

func (svc *service) HasSession(ctx context.Context, sessionID string) bool {
	return svc.store.Has(sessionID)
}
