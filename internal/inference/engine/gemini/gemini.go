package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/yungbote/lessonplan-backend/internal/inference/config"
	"github.com/yungbote/lessonplan-backend/internal/inference/engine"
)

const engineName = "gemini"

// Engine calls the Gemini API through the genai SDK.
type Engine struct {
	client *genai.Client
	// timeout caps each GenerateText call; zero leaves the caller's deadline alone.
	timeout time.Duration
}

func New(ctx context.Context, cfg config.EngineConfig) (*Engine, error) {
	return NewWithHTTPClient(ctx, cfg, nil)
}

// NewWithHTTPClient is intended for tests; the client is pointed at cfg.BaseURL.
func NewWithHTTPClient(ctx context.Context, cfg config.EngineConfig, httpClient *http.Client) (*Engine, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key", config.ErrMissingCredential)
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	if httpClient != nil {
		cc.HTTPClient = httpClient
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Engine{client: client, timeout: cfg.Timeout.Duration}, nil
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	contents, system := toContents(messages)
	if len(contents) == 0 {
		return "", errors.New("no messages")
	}

	gcfg := &genai.GenerateContentConfig{
		SystemInstruction: system,
		SafetySettings:    toSafetySettings(opts.Safety),
	}
	if opts.Temperature != nil {
		t := float32(*opts.Temperature)
		gcfg.Temperature = &t
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	resp, err := e.client.Models.GenerateContent(ctx, model, contents, gcfg)
	if err != nil {
		return "", wrapError(model, err)
	}
	if resp == nil {
		return "", &engine.UpstreamError{Engine: engineName, Model: model, Err: engine.ErrEmptyResponse}
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &engine.UpstreamError{Engine: engineName, Model: model, Err: engine.ErrEmptyResponse}
	}
	return text, nil
}

func toContents(messages []engine.Message) ([]*genai.Content, *genai.Content) {
	var system []string
	out := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(m.Role)) {
		case engine.RoleSystem:
			system = append(system, content)
		case engine.RoleAssistant, "model":
			out = append(out, genai.NewContentFromText(content, genai.RoleModel))
		default:
			out = append(out, genai.NewContentFromText(content, genai.RoleUser))
		}
	}
	if len(system) == 0 {
		return out, nil
	}
	return out, genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
}

func toSafetySettings(in []engine.SafetySetting) []*genai.SafetySetting {
	if len(in) == 0 {
		return nil
	}
	out := make([]*genai.SafetySetting, 0, len(in))
	for _, s := range in {
		out = append(out, &genai.SafetySetting{
			Category:  genai.HarmCategory(s.Category),
			Threshold: genai.HarmBlockThreshold(s.Threshold),
		})
	}
	return out
}

func wrapError(model string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &engine.UpstreamError{
			Engine:     engineName,
			Model:      model,
			StatusCode: apiErr.Code,
			Err:        fmt.Errorf("%s: %s", apiErr.Status, apiErr.Message),
		}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &engine.UpstreamError{
			Engine:     engineName,
			Model:      model,
			StatusCode: apiErrPtr.Code,
			Err:        fmt.Errorf("%s: %s", apiErrPtr.Status, apiErrPtr.Message),
		}
	}
	return &engine.UpstreamError{Engine: engineName, Model: model, Err: err}
}
