package oaihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/lessonplan-backend/internal/inference/config"
	"github.com/yungbote/lessonplan-backend/internal/inference/engine"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func testConfig() config.EngineConfig {
	return config.EngineConfig{
		Type:                "oai_http",
		BaseURL:             "http://upstream",
		APIKey:              "secret",
		ChatCompletionsPath: "/v1/chat/completions",
		Timeout:             config.Duration{Duration: 2 * time.Second},
	}
}

func TestGenerateText(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/v1/chat/completions" {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			if got := req.Header.Get("Authorization"); got != "Bearer secret" {
				t.Fatalf("authorization=%q", got)
			}

			var in request
			if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
				t.Fatalf("decode req: %v", err)
			}
			if in.Model != "upstream-model" {
				t.Fatalf("model=%q", in.Model)
			}
			if len(in.Messages) != 2 {
				t.Fatalf("expected blank messages dropped, got %d", len(in.Messages))
			}
			if in.Stream {
				t.Fatalf("stream must be off")
			}
			return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"plano"}}]}`), nil
		}),
	}

	e, err := NewWithHTTPClient(testConfig(), client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}

	out, err := e.GenerateText(context.Background(), "upstream-model", []engine.Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "user"},
		{Role: "user", Content: "   "},
	}, engine.GenerateOptions{})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if strings.TrimSpace(out) != "plano" {
		t.Fatalf("out=%q", out)
	}
}

func TestGenerateTextHTTPError(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusServiceUnavailable, `{"error":"busy"}`), nil
		}),
	}
	e, err := NewWithHTTPClient(testConfig(), client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}

	_, err = e.GenerateText(context.Background(), "m", []engine.Message{{Role: "user", Content: "x"}}, engine.GenerateOptions{})
	var upErr *engine.UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %T", err)
	}
	if upErr.HTTPStatusCode() != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", upErr.HTTPStatusCode())
	}
	if !strings.Contains(err.Error(), "503 Service Unavailable") {
		t.Fatalf("message=%q", err.Error())
	}
}

func TestGenerateTextEmptyCompletion(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":""}}]}`), nil
		}),
	}
	e, err := NewWithHTTPClient(testConfig(), client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	_, err = e.GenerateText(context.Background(), "m", []engine.Message{{Role: "user", Content: "x"}}, engine.GenerateOptions{})
	if !errors.Is(err, engine.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGenerateTextWithoutKeyAndLegacyText(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = ""
	cfg.ChatCompletionsPath = "api/chat"
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/api/chat" {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			if got := req.Header.Get("Authorization"); got != "" {
				t.Fatalf("authorization=%q", got)
			}
			var in request
			_ = json.NewDecoder(req.Body).Decode(&in)
			if in.Messages[0].Role != engine.RoleAssistant {
				t.Fatalf("model role not mapped: %q", in.Messages[0].Role)
			}
			return jsonResponse(http.StatusOK, `{"choices":[{"text":"texto"}]}`), nil
		}),
	}
	e, err := NewWithHTTPClient(cfg, client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	out, err := e.GenerateText(context.Background(), "m", []engine.Message{
		{Role: "model", Content: "antes"},
		{Role: "user", Content: "x"},
	}, engine.GenerateOptions{})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if out != "texto" {
		t.Fatalf("out=%q", out)
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(config.EngineConfig{Type: "oai_http"}); err == nil {
		t.Fatalf("expected error")
	}
}
