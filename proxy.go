package docqa

import (
	"context"
	"errors"
)

// ProxyMiddleware forwards every call to remote endpoints instead of the
// wrapped service.
func ProxyMiddleware(endpoints *EndpointSet) ServiceMiddleware {
	return func(next Service) Service {
		return &proxyMiddleware{
			endpoints: endpoints,
		}
	}
}

type proxyMiddleware struct {
	endpoints *EndpointSet
}

func (mw *proxyMiddleware) Close() error {
	return errors.New("method not implemented")
}

func (mw *proxyMiddleware) AddDocument(ctx context.Context, sessionID string, content string, source string) (int, error) {
	req := AddDocumentRequest{
		SessionID: sessionID,
		Content:   content,
		Source:    source,
	}

	resp, err := mw.endpoints.AddDocument(ctx, req)
	if err != nil {
		return 0, err
	}

	result, ok := resp.(AddDocumentResponse)
	if !ok {
		return 0, errors.New("invalid response type")
	}

	return result.Chunks, nil
}

func (mw *proxyMiddleware) Ask(ctx context.Context, sessionID string, question string) (string, error) {
	req := AskRequest{
		SessionID: sessionID,
		Question:  question,
	}

	resp, err := mw.endpoints.Ask(ctx, req)
	if err != nil {
		return "", err
	}

	result, ok := resp.(AskResponse)
	if !ok {
		return "", errors.New("invalid response type")
	}

	return result.Answer, nil
}

func (mw *proxyMiddleware) GetDocuments(ctx context.Context, sessionID string) ([]string, error) {
	resp, err := mw.endpoints.GetDocuments(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	docs, ok := resp.([]string)
	if !ok {
		return nil, errors.New("invalid response type")
	}

	return docs, nil
}

func (mw *proxyMiddleware) Summarize(ctx context.Context, text string, size SummarySize) (string, error) {
	req := SummarizeRequest{
		Text: text,
		Size: size,
	}

	resp, err := mw.endpoints.Summarize(ctx, req)
	if err != nil {
		return "", err
	}

	result, ok := resp.(SummaryResponse)
	if !ok {
		return "", errors.New("invalid response type")
	}

	return result.Summary, nil
}

func (mw *proxyMiddleware) SummarizeSession(ctx context.Context, sessionID string, size SummarySize) (string, error) {
	req := SummarizeSessionRequest{
		SessionID: sessionID,
		Size:      size,
	}

	resp, err := mw.endpoints.SummarizeSession(ctx, req)
	if err != nil {
		return "", err
	}

	result, ok := resp.(SummaryResponse)
	if !ok {
		return "", errors.New("invalid response type")
	}

	return result.Summary, nil
}

func (mw *proxyMiddleware) History(ctx context.Context, sessionID string) ([]Exchange, error) {
	resp, err := mw.endpoints.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, ok := resp.(HistoryResponse)
	if !ok {
		return nil, errors.New("invalid response type")
	}

	return result.History, nil
}

func (mw *proxyMiddleware) ClearSession(ctx context.Context, sessionID string) error {
	_, err := mw.endpoints.ClearSession(ctx, sessionID)
	return err
}

func (mw *proxyMiddleware) HasSession(ctx context.Context, sessionID string) bool {
	resp, err := mw.endpoints.HasSession(ctx, sessionID)
	if err != nil {
		return false
	}

	result, ok := resp.(HasSessionResponse)
	if !ok {
		return false
	}

	return result.Exists
}
