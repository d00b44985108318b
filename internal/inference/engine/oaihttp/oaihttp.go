package oaihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/lessonplan-backend/internal/inference/config"
	"github.com/yungbote/lessonplan-backend/internal/inference/engine"
)

const (
	engineName      = "oai_http"
	defaultPath     = "/v1/chat/completions"
	defaultTimeout  = 60 * time.Second
	maxErrorSnippet = 512
)

// Engine posts chat completions to a self-hosted OpenAI-compatible server
// (Ollama, vLLM, LM Studio). Unlike the openai engine it works without a key.
type Engine struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	hc       *http.Client
}

func New(cfg config.EngineConfig) (*Engine, error) {
	return NewWithHTTPClient(cfg, nil)
}

// NewWithHTTPClient swaps the transport, mostly for tests.
func NewWithHTTPClient(cfg config.EngineConfig, hc *http.Client) (*Engine, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("oai_http: base_url required")
	}
	path := strings.TrimSpace(cfg.ChatCompletionsPath)
	if path == "" {
		path = defaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return &Engine{
		endpoint: base + path,
		apiKey:   strings.TrimSpace(cfg.APIKey),
		timeout:  timeout,
		hc:       hc,
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	Stream      bool      `json:"stream"`
}

// completion accepts both chat ("message.content") and legacy ("text") choices.
type completion struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
}

func (c completion) text() string {
	for _, ch := range c.Choices {
		if strings.TrimSpace(ch.Message.Content) != "" {
			return ch.Message.Content
		}
		if strings.TrimSpace(ch.Text) != "" {
			return ch.Text
		}
	}
	return ""
}

// statusError is a non-2xx answer. The body snippet stays in the chain for logs.
type statusError struct {
	code    int
	snippet string
}

func (e *statusError) Error() string {
	if e.snippet == "" {
		return fmt.Sprintf("status %d", e.code)
	}
	return fmt.Sprintf("status %d: %s", e.code, e.snippet)
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	req := request{Model: model, Temperature: opts.Temperature}
	for _, m := range messages {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		content := strings.TrimSpace(m.Content)
		if role == "" || content == "" {
			continue
		}
		if role == "model" {
			role = engine.RoleAssistant
		}
		req.Messages = append(req.Messages, message{Role: role, Content: content})
	}
	if len(req.Messages) == 0 {
		return "", errors.New("no messages")
	}

	var out completion
	if err := e.post(ctx, req, &out); err != nil {
		ue := &engine.UpstreamError{Engine: engineName, Model: model, Err: err}
		var se *statusError
		if errors.As(err, &se) {
			ue.StatusCode = se.code
		}
		return "", ue
	}
	text := out.text()
	if strings.TrimSpace(text) == "" {
		return "", &engine.UpstreamError{Engine: engineName, Model: model, Err: engine.ErrEmptyResponse}
	}
	return text, nil
}

func (e *Engine) post(ctx context.Context, body request, out *completion) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorSnippet))
		return &statusError{code: resp.StatusCode, snippet: strings.TrimSpace(string(raw))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode completion: %w", err)
	}
	return nil
}
