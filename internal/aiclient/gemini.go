package aiclient

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"codeberg.org/snonux/dowel/internal/apperr"
	"codeberg.org/snonux/dowel/internal/transport"
)

const geminiHost = "generativelanguage.googleapis.com"

func isGemini(endpoint string) bool {
	return hostOf(endpoint) == geminiHost
}

func (c *Client) gemini(ctx context.Context, key string) (*genai.Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: transport.HTTPClient(c.transport),
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, geminiHost, err)
	}
	return gc, nil
}

func (c *Client) geminiModels(ctx context.Context, endpoint, key string) ([]Model, error) {
	gc, err := c.gemini(ctx, key)
	if err != nil {
		return nil, err
	}

	var models []Model
	for m, err := range gc.Models.All(ctx) {
		if err != nil {
			return nil, classifyGemini(hostOf(endpoint), err, apperr.KindModelsQuery)
		}
		models = append(models, Model{ID: strings.TrimPrefix(m.Name, "models/"), OwnedBy: "google"})
	}
	return models, nil
}

func (c *Client) geminiCompletion(ctx context.Context, t target, system, user string) (string, error) {
	gc, err := c.gemini(ctx, t.provider.Key)
	if err != nil {
		return "", err
	}

	resp, err := gc.Models.GenerateContent(ctx, t.profile.Model, genai.Text(user), geminiConfig(system))
	if err != nil {
		return "", classifyGemini(t.provider.Name, err, apperr.KindData)
	}
	text := geminiText(resp)
	if text == "" {
		return "", apperr.New(apperr.KindResponseShape, t.provider.Name, "completion has no content")
	}
	return text, nil
}

func (c *Client) geminiStream(ctx context.Context, t target, system, user string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		gc, err := c.gemini(ctx, t.provider.Key)
		if err != nil {
			yield("", err)
			return
		}

		for resp, err := range gc.Models.GenerateContentStream(ctx, t.profile.Model, genai.Text(user), geminiConfig(system)) {
			if err != nil {
				yield("", classifyGemini(t.provider.Name, err, apperr.KindTransport))
				return
			}
			if text := geminiText(resp); text != "" {
				if !yield(text, nil) {
					return
				}
			}
		}
	}
}

func geminiConfig(system string) *genai.GenerateContentConfig {
	if system == "" {
		return nil
	}
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
}

func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func classifyGemini(provider string, err error, statusKind apperr.Kind) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var ptr *genai.APIError
		if !errors.As(err, &ptr) || ptr == nil {
			return apperr.Wrap(apperr.KindTransport, provider, err)
		}
		apiErr = *ptr
	}

	e := &apperr.Error{
		Kind:     statusKind,
		Provider: provider,
		Status:   apiErr.Code,
		Code:     apiErr.Status,
		Message:  apiErr.Message,
	}
	if apiErr.Code == http.StatusUnauthorized || apiErr.Status == "UNAUTHENTICATED" {
		e.Kind = apperr.KindAuth
	}
	return e
}
