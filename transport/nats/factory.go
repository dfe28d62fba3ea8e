package nats

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-kit/kit/endpoint"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"

	"github.com/flarexio/docqa"
)

// RequestTimeout bounds a remote call. It exceeds the default generation
// timeout so degraded answers still make it back.
var RequestTimeout = 90 * time.Second

// knownErrors are restored on the client side so callers can keep using
// errors.Is across the wire.
var knownErrors = []error{
	docqa.ErrInvalidSessionID,
	docqa.ErrEmptyDocument,
	docqa.ErrNoDocuments,
	docqa.ErrEmptyQuestion,
	docqa.ErrEmptyText,
	docqa.ErrUnknownSummarySize,
}

func MakeEndpoints(nc *nats.Conn, prefix string) *docqa.EndpointSet {
	return &docqa.EndpointSet{
		AddDocument:      AddDocumentEndpoint(nc, prefix+".add_document"),
		Ask:              AskEndpoint(nc, prefix+".ask"),
		GetDocuments:     GetDocumentsEndpoint(nc, prefix+".get_documents"),
		Summarize:        SummarizeEndpoint(nc, prefix+".summarize"),
		SummarizeSession: SummarizeSessionEndpoint(nc, prefix+".summarize_session"),
		History:          HistoryEndpoint(nc, prefix+".history"),
		ClearSession:     ClearSessionEndpoint(nc, prefix+".clear_session"),
		HasSession:       HasSessionEndpoint(nc, prefix+".has_session"),
	}
}

func request(ctx context.Context, nc *nats.Conn, topic string, data []byte) (*nats.Msg, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
	}

	resp, err := nc.RequestWithContext(ctx, topic, data)
	if err != nil {
		return nil, err
	}

	if err := Error(resp); err != nil {
		return nil, err
	}

	return resp, nil
}

func requestJSON(ctx context.Context, nc *nats.Conn, topic string, req any, resp any) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}

	msg, err := request(ctx, nc, topic, data)
	if err != nil {
		return err
	}

	return json.Unmarshal(msg.Data, resp)
}

func AddDocumentEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(docqa.AddDocumentRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		var resp docqa.AddDocumentResponse
		if err := requestJSON(ctx, nc, topic, &req, &resp); err != nil {
			return nil, err
		}

		return resp, nil
	}
}

func AskEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(docqa.AskRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		var resp docqa.AskResponse
		if err := requestJSON(ctx, nc, topic, &req, &resp); err != nil {
			return nil, err
		}

		return resp, nil
	}
}

func GetDocumentsEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		sessionID, ok := req.(string)
		if !ok {
			return nil, errors.New("invalid request")
		}

		msg, err := request(ctx, nc, topic, []byte(sessionID))
		if err != nil {
			return nil, err
		}

		var docs []string
		if err := json.Unmarshal(msg.Data, &docs); err != nil {
			return nil, err
		}

		return docs, nil
	}
}

func SummarizeEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(docqa.SummarizeRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		var resp docqa.SummaryResponse
		if err := requestJSON(ctx, nc, topic, &req, &resp); err != nil {
			return nil, err
		}

		return resp, nil
	}
}

func SummarizeSessionEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(docqa.SummarizeSessionRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		var resp docqa.SummaryResponse
		if err := requestJSON(ctx, nc, topic, &req, &resp); err != nil {
			return nil, err
		}

		return resp, nil
	}
}

func HistoryEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		sessionID, ok := req.(string)
		if !ok {
			return nil, errors.New("invalid request")
		}

		msg, err := request(ctx, nc, topic, []byte(sessionID))
		if err != nil {
			return nil, err
		}

		var resp docqa.HistoryResponse
		if err := json.Unmarshal(msg.Data, &resp); err != nil {
			return nil, err
		}

		return resp, nil
	}
}

func ClearSessionEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		sessionID, ok := req.(string)
		if !ok {
			return nil, errors.New("invalid request")
		}

		_, err := request(ctx, nc, topic, []byte(sessionID))
		return nil, err
	}
}

func HasSessionEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		sessionID, ok := req.(string)
		if !ok {
			return nil, errors.New("invalid request")
		}

		msg, err := request(ctx, nc, topic, []byte(sessionID))
		if err != nil {
			return nil, err
		}

		var resp docqa.HasSessionResponse
		if err := json.Unmarshal(msg.Data, &resp); err != nil {
			return nil, err
		}

		return resp, nil
	}
}

// RemoteError is a service error received over NATS.
type RemoteError struct {
	Code        string
	Description string
	known       error
}

func (e *RemoteError) Error() string {
	return e.Code + ":" + e.Description
}

func (e *RemoteError) Unwrap() error {
	return e.known
}

func Error(msg *nats.Msg) error {
	if msg == nil {
		return errors.New("nil message")
	}

	code := msg.Header.Get(micro.ErrorCodeHeader)
	if code == "" {
		return nil
	}

	description := msg.Header.Get(micro.ErrorHeader)
	if description == "" {
		description = "unknown error"
	}

	err := &RemoteError{
		Code:        code,
		Description: description,
	}

	for _, known := range knownErrors {
		if description == known.Error() || strings.HasPrefix(description, known.Error()+":") {
			err.known = known
			break
		}
	}

	return err
}
