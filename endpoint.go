package docqa

import (
	"context"
	"errors"

	"github.com/go-kit/kit/endpoint"
)

type EndpointSet struct {
	AddDocument      endpoint.Endpoint
	Ask              endpoint.Endpoint
	GetDocuments     endpoint.Endpoint
	Summarize        endpoint.Endpoint
	SummarizeSession endpoint.Endpoint
	History          endpoint.Endpoint
	ClearSession     endpoint.Endpoint
	HasSession       endpoint.Endpoint
}

func MakeEndpoints(svc Service) *EndpointSet {
	return &EndpointSet{
		AddDocument:      AddDocumentEndpoint(svc),
		Ask:              AskEndpoint(svc),
		GetDocuments:     GetDocumentsEndpoint(svc),
		Summarize:        SummarizeEndpoint(svc),
		SummarizeSession: SummarizeSessionEndpoint(svc),
		History:          HistoryEndpoint(svc),
		ClearSession:     ClearSessionEndpoint(svc),
		HasSession:       HasSessionEndpoint(svc),
	}
}

type AddDocumentRequest struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
	Source    string `json:"source,omitempty"`
}

type AddDocumentResponse struct {
	Chunks int `json:"chunks"`
}

func AddDocumentEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(AddDocumentRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		n, err := svc.AddDocument(ctx, req.SessionID, req.Content, req.Source)
		if err != nil {
			return nil, err
		}

		return AddDocumentResponse{Chunks: n}, nil
	}
}

type AskRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

func AskEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(AskRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		answer, err := svc.Ask(ctx, req.SessionID, req.Question)
		if err != nil {
			return nil, err
		}

		return AskResponse{Answer: answer}, nil
	}
}

func GetDocumentsEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		sessionID, ok := request.(string)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		return svc.GetDocuments(ctx, sessionID)
	}
}

type SummarizeRequest struct {
	Text string      `json:"text"`
	Size SummarySize `json:"size,omitempty"`
}

type SummarizeSessionRequest struct {
	SessionID string      `json:"session_id"`
	Size      SummarySize `json:"size,omitempty"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}

func SummarizeEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(SummarizeRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		summary, err := svc.Summarize(ctx, req.Text, req.Size)
		if err != nil {
			return nil, err
		}

		return SummaryResponse{Summary: summary}, nil
	}
}

func SummarizeSessionEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(SummarizeSessionRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		summary, err := svc.SummarizeSession(ctx, req.SessionID, req.Size)
		if err != nil {
			return nil, err
		}

		return SummaryResponse{Summary: summary}, nil
	}
}

type HistoryResponse struct {
	History []Exchange `json:"history"`
}

func HistoryEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		sessionID, ok := request.(string)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		history, err := svc.History(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		return HistoryResponse{History: history}, nil
	}
}

func ClearSessionEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		sessionID, ok := request.(string)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		err := svc.ClearSession(ctx, sessionID)
		return nil, err
	}
}

type HasSessionResponse struct {
	Exists bool `json:"exists"`
}

func HasSessionEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		sessionID, ok := request.(string)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		return HasSessionResponse{
			Exists: svc.HasSession(ctx, sessionID),
		}, nil
	}
}
