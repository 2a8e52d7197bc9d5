package aiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/dowel/internal/apperr"
	"codeberg.org/snonux/dowel/internal/config"
	"codeberg.org/snonux/dowel/internal/transport"
)

// Model is one entry of a provider's model list.
type Model struct {
	ID      string
	OwnedBy string
}

// Client resolves AI profiles through the config store and sends their
// requests through the transport port.
type Client struct {
	store     *config.Store
	transport transport.Port
	resolver  ContentResolver
	log       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithResolver sets how streamed messages are turned into content.
func WithResolver(r ContentResolver) Option {
	return func(c *Client) { c.resolver = r }
}

// WithLogger sets the client logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a Client. Without WithResolver messages are used verbatim.
func New(store *config.Store, tp transport.Port, opts ...Option) *Client {
	c := &Client{
		store:     store,
		transport: tp,
		resolver:  PassThrough{},
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// target is a fully resolved profile and provider pair.
type target struct {
	profile  config.AIProfile
	provider config.Provider
}

func (t target) gemini() bool {
	return isGemini(t.provider.API)
}

// resolve looks up the profile and its provider. Any missing piece is a
// configuration error; nothing is sent.
func (c *Client) resolve(ctx context.Context, profileName string) (target, error) {
	profile, ok := c.store.AIProfile(ctx, profileName)
	if !ok {
		return target{}, apperr.ConfigurationMissing(profileName, "AI profile is not configured")
	}
	provider, ok := c.store.Provider(ctx, profile.Provider)
	if !ok {
		return target{}, apperr.ConfigurationMissing(profile.Provider, "AI provider is not configured")
	}
	if provider.API == "" || provider.Key == "" {
		return target{}, apperr.ConfigurationMissing(provider.Name, "AI provider has no endpoint or key")
	}
	return target{profile: profile, provider: provider}, nil
}

// baseURL appends /v1 to an endpoint unless it already ends with it.
func baseURL(endpoint string) string {
	endpoint = strings.TrimRight(endpoint, "/")
	if strings.HasSuffix(endpoint, "/v1") {
		return endpoint
	}
	return endpoint + "/v1"
}

func (c *Client) openAI(endpoint, key string) *openai.Client {
	cfg := openai.DefaultConfig(key)
	cfg.BaseURL = baseURL(endpoint)
	cfg.HTTPClient = c.transport
	return openai.NewClientWithConfig(cfg)
}

// ListModels returns the models served at endpoint.
func (c *Client) ListModels(ctx context.Context, endpoint, key string) ([]Model, error) {
	if endpoint == "" || key == "" {
		return nil, apperr.ConfigurationMissing(endpoint, "endpoint and key are required")
	}
	if isGemini(endpoint) {
		return c.geminiModels(ctx, endpoint, key)
	}

	list, err := c.openAI(endpoint, key).ListModels(ctx)
	if err != nil {
		return nil, classify(hostOf(endpoint), err, apperr.KindModelsQuery)
	}

	models := make([]Model, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, Model{ID: m.ID, OwnedBy: m.OwnedBy})
	}
	return models, nil
}

// SingleCompletion sends message with the profile's system prompt and
// returns the first choice.
func (c *Client) SingleCompletion(ctx context.Context, profileName, message string) (string, error) {
	t, err := c.resolve(ctx, profileName)
	if err != nil {
		return "", err
	}
	if t.gemini() {
		return c.geminiCompletion(ctx, t, t.profile.Prompt, message)
	}

	resp, err := c.openAI(t.provider.API, t.provider.Key).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    t.profile.Model,
		Messages: messages(t.profile.Prompt, message),
	})
	if err != nil {
		return "", classify(t.provider.Name, err, apperr.KindData)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", apperr.New(apperr.KindResponseShape, t.provider.Name, "completion has no content")
	}
	return resp.Choices[0].Message.Content, nil
}

func messages(system, user string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: user},
	}
}

// classify maps an SDK error onto the error taxonomy. A 401 is always an
// auth error; other HTTP failures get statusKind.
func classify(provider string, err error, statusKind apperr.Kind) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		e := &apperr.Error{Kind: statusKind, Provider: provider, Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
		if apiErr.Code != nil {
			e.Code = fmt.Sprint(apiErr.Code)
		}
		if apiErr.HTTPStatusCode == http.StatusUnauthorized {
			e.Kind = apperr.KindAuth
		}
		return e
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		e := &apperr.Error{Kind: statusKind, Provider: provider, Status: reqErr.HTTPStatusCode, Err: reqErr.Err}
		if reqErr.HTTPStatusCode == http.StatusUnauthorized {
			e.Kind = apperr.KindAuth
		}
		return e
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return apperr.Wrap(apperr.KindResponseShape, provider, err)
	}

	return apperr.Wrap(apperr.KindTransport, provider, err)
}

func hostOf(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}
