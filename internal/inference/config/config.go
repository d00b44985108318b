package config

import (
	"errors"
	"time"
)

// ErrMissingCredential marks a candidate whose engine needs an API key that is not configured.
var ErrMissingCredential = errors.New("missing upstream credential")

const (
	EngineGemini  = "gemini"
	EngineOpenAI  = "openai"
	EngineOAIHTTP = "oai_http"
	EngineMock    = "mock"

	SafetyPermissive = "permissive"
	SafetyDefault    = "default"
)

type Duration struct {
	Duration time.Duration
}

type EngineConfig struct {
	Type string `json:"type" yaml:"type"`

	// BaseURL overrides the upstream endpoint. Required for "oai_http".
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	// APIKeyEnv names the environment variable holding the key when APIKey is empty.
	APIKeyEnv string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`

	ChatCompletionsPath string `json:"chat_completions_path,omitempty" yaml:"chat_completions_path,omitempty"`

	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

type CandidateConfig struct {
	ID string `json:"id" yaml:"id"`

	// UpstreamModel overrides the model name sent to the engine. Defaults to ID.
	UpstreamModel string `json:"upstream_model,omitempty" yaml:"upstream_model,omitempty"`

	Engine EngineConfig `json:"engine" yaml:"engine"`
}

// Config is the ordered list of model candidates tried for every generation.
type Config struct {
	Candidates []CandidateConfig `json:"candidates" yaml:"candidates"`

	// AttemptTimeout bounds a single candidate call.
	AttemptTimeout Duration `json:"attempt_timeout,omitempty" yaml:"attempt_timeout,omitempty"`

	Safety      string   `json:"safety,omitempty" yaml:"safety,omitempty"`
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// DefaultGeminiModels is the production priority order, best first.
var DefaultGeminiModels = []string{
	"gemini-1.5-pro-latest",
	"gemini-1.5-pro",
	"gemini-1.5-flash-latest",
	"gemini-1.5-flash",
	"gemini-1.0-pro",
}

func (c *Config) CandidateIDs() []string {
	out := make([]string, 0, len(c.Candidates))
	for _, m := range c.Candidates {
		out = append(out, m.ID)
	}
	return out
}
