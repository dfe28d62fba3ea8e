package docqa

import (
	"context"

	"go.uber.org/zap"
)

func LoggingMiddleware(log *zap.Logger) ServiceMiddleware {
	log = log.With(
		zap.String("service", "docqa"),
	)

	return func(next Service) Service {
		log.Info("service initialized")

		return &loggingMiddleware{
			log:  log,
			next: next,
		}
	}
}

type loggingMiddleware struct {
	log  *zap.Logger
	next Service
}

func (mw *loggingMiddleware) Close() error {
	log := mw.log.With(
		zap.String("action", "close"),
	)

	err := mw.next.Close()
	if err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("service closed")
	return nil
}

func (mw *loggingMiddleware) AddDocument(ctx context.Context, sessionID string, content string, source string) (int, error) {
	log := mw.log.With(
		zap.String("action", "add_document"),
		zap.String("session_id", sessionID),
		zap.String("source", source),
		zap.Int("length", len(content)),
	)

	n, err := mw.next.AddDocument(ctx, sessionID, content, source)
	if err != nil {
		log.Error(err.Error())
		return 0, err
	}

	log.Info("document added", zap.Int("chunks", n))
	return n, nil
}

func (mw *loggingMiddleware) Ask(ctx context.Context, sessionID string, question string) (string, error) {
	log := mw.log.With(
		zap.String("action", "ask"),
		zap.String("session_id", sessionID),
		zap.String("question", question),
	)

	answer, err := mw.next.Ask(ctx, sessionID, question)
	if err != nil {
		log.Error(err.Error())
		return "", err
	}

	log.Info("question answered", zap.Int("length", len(answer)))
	return answer, nil
}

func (mw *loggingMiddleware) GetDocuments(ctx context.Context, sessionID string) ([]string, error) {
	log := mw.log.With(
		zap.String("action", "get_documents"),
		zap.String("session_id", sessionID),
	)

	docs, err := mw.next.GetDocuments(ctx, sessionID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("documents listed", zap.Int("count", len(docs)))
	return docs, nil
}

func (mw *loggingMiddleware) Summarize(ctx context.Context, text string, size SummarySize) (string, error) {
	log := mw.log.With(
		zap.String("action", "summarize"),
		zap.String("size", string(size)),
		zap.Int("length", len(text)),
	)

	summary, err := mw.next.Summarize(ctx, text, size)
	if err != nil {
		log.Error(err.Error())
		return "", err
	}

	log.Info("text summarized")
	return summary, nil
}

func (mw *loggingMiddleware) SummarizeSession(ctx context.Context, sessionID string, size SummarySize) (string, error) {
	log := mw.log.With(
		zap.String("action", "summarize_session"),
		zap.String("session_id", sessionID),
		zap.String("size", string(size)),
	)

	summary, err := mw.next.SummarizeSession(ctx, sessionID, size)
	if err != nil {
		log.Error(err.Error())
		return "", err
	}

	log.Info("session summarized")
	return summary, nil
}

func (mw *loggingMiddleware) History(ctx context.Context, sessionID string) ([]Exchange, error) {
	log := mw.log.With(
		zap.String("action", "history"),
		zap.String("session_id", sessionID),
	)

	history, err := mw.next.History(ctx, sessionID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Debug("history listed", zap.Int("count", len(history)))
	return history, nil
}

func (mw *loggingMiddleware) ClearSession(ctx context.Context, sessionID string) error {
	log := mw.log.With(
		zap.String("action", "clear_session"),
		zap.String("session_id", sessionID),
	)

	err := mw.next.ClearSession(ctx, sessionID)
	if err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("session cleared")
	return nil
}

func (mw *loggingMiddleware) HasSession(ctx context.Context, sessionID string) bool {
	ok := mw.next.HasSession(ctx, sessionID)

	mw.log.Debug("session checked",
		zap.String("action", "has_session"),
		zap.String("session_id", sessionID),
		zap.Bool("exists", ok),
	)

	return ok
}
