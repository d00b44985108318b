package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yungbote/lessonplan-backend/internal/inference/config"
	"github.com/yungbote/lessonplan-backend/internal/inference/engine"
)

const engineName = "openai"

// Engine talks to OpenAI or any server speaking the same chat completions API.
type Engine struct {
	client *goopenai.Client
}

func New(cfg config.EngineConfig) (*Engine, error) {
	return NewWithHTTPClient(cfg, nil)
}

func NewWithHTTPClient(cfg config.EngineConfig, httpClient *http.Client) (*Engine, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openai api key", config.ErrMissingCredential)
	}
	oc := goopenai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if httpClient != nil {
		oc.HTTPClient = httpClient
	} else if cfg.Timeout.Duration > 0 {
		oc.HTTPClient = &http.Client{Timeout: cfg.Timeout.Duration}
	}
	return &Engine{client: goopenai.NewClientWithConfig(oc)}, nil
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	req := goopenai.ChatCompletionRequest{Model: model}
	for _, m := range messages {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		req.Messages = append(req.Messages, goopenai.ChatCompletionMessage{
			Role:    toRole(m.Role),
			Content: content,
		})
	}
	if len(req.Messages) == 0 {
		return "", errors.New("no messages")
	}
	if opts.Temperature != nil {
		req.Temperature = float32(*opts.Temperature)
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapError(model, err)
	}
	for _, c := range resp.Choices {
		if strings.TrimSpace(c.Message.Content) != "" {
			return c.Message.Content, nil
		}
	}
	return "", &engine.UpstreamError{Engine: engineName, Model: model, Err: engine.ErrEmptyResponse}
}

func toRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case engine.RoleSystem:
		return goopenai.ChatMessageRoleSystem
	case engine.RoleAssistant, "model":
		return goopenai.ChatMessageRoleAssistant
	default:
		return goopenai.ChatMessageRoleUser
	}
}

func wrapError(model string, err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &engine.UpstreamError{Engine: engineName, Model: model, StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &engine.UpstreamError{Engine: engineName, Model: model, StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &engine.UpstreamError{Engine: engineName, Model: model, Err: err}
}
