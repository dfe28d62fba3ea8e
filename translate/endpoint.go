package translate

import (
	"context"
	"errors"

	"github.com/go-kit/kit/endpoint"
)

type TranslateRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

type TranslateResponse struct {
	Translation    string `json:"translation"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

func TranslateEndpoint(t *Translator) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(TranslateRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		translation, err := t.Translate(ctx, req.Text, req.SourceLanguage, req.TargetLanguage)
		if err != nil {
			return nil, err
		}

		return TranslateResponse{
			Translation:    translation,
			SourceLanguage: req.SourceLanguage,
			TargetLanguage: req.TargetLanguage,
		}, nil
	}
}

func LanguagesEndpoint() endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		return Languages(), nil
	}
}
