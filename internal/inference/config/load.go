package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/lessonplan-backend/internal/platform/envutil"
)

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		return d.parse(u)
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a JSON string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar (line %d)", value.Line)
	}
	s := strings.TrimSpace(value.Value)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		d.Duration = time.Duration(n)
		return nil
	}
	return d.parse(s)
}

func (d *Duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		d.Duration = 0
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dd
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Candidates:     geminiCandidates(DefaultGeminiModels),
		AttemptTimeout: Duration{Duration: 60 * time.Second},
		Safety:         SafetyPermissive,
	}
}

func geminiCandidates(models []string) []CandidateConfig {
	out := make([]CandidateConfig, 0, len(models))
	for _, m := range models {
		out = append(out, CandidateConfig{ID: m, Engine: EngineConfig{Type: EngineGemini}})
	}
	return out
}

// Load reads the candidate list from LESSONPLAN_MODELS_PATH (or ./config/models.yaml),
// applies environment overrides and validates the result.
func Load() (*Config, error) {
	cfgPath := strings.TrimSpace(os.Getenv("LESSONPLAN_MODELS_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "models.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	return LoadFile(cfgPath)
}

// LoadFile is Load with an explicit path; an empty path uses the built-in defaults.
func LoadFile(cfgPath string) (*Config, error) {
	cfg := defaultConfig()

	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, err
		}
		loaded, err := Parse(b, filepath.Ext(cfgPath))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", cfgPath, err)
		}
		if len(loaded.Candidates) > 0 {
			cfg.Candidates = loaded.Candidates
		}
		if loaded.AttemptTimeout.Duration != 0 {
			cfg.AttemptTimeout = loaded.AttemptTimeout
		}
		if loaded.Safety != "" {
			cfg.Safety = loaded.Safety
		}
		cfg.Temperature = loaded.Temperature
	}

	if models := envutil.List("LESSONPLAN_MODELS"); len(models) > 0 {
		cfg.Candidates = geminiCandidates(models)
	}
	if v := strings.TrimSpace(os.Getenv("LESSONPLAN_ATTEMPT_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("LESSONPLAN_ATTEMPT_TIMEOUT: %w", err)
		}
		cfg.AttemptTimeout = Duration{Duration: d}
	}
	if v := strings.TrimSpace(os.Getenv("LESSONPLAN_SAFETY")); v != "" {
		cfg.Safety = v
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Parse(b []byte, ext string) (*Config, error) {
	var loaded Config
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(b, &loaded); err != nil {
			return nil, err
		}
		return &loaded, nil
	}
	if err := yaml.Unmarshal(b, &loaded); err != nil {
		return nil, err
	}
	return &loaded, nil
}

func (cfg *Config) normalize() error {
	if len(cfg.Candidates) == 0 {
		return errors.New("config must define at least one candidate")
	}
	if cfg.AttemptTimeout.Duration < 0 {
		return errors.New("attempt_timeout must not be negative")
	}
	if cfg.AttemptTimeout.Duration == 0 {
		cfg.AttemptTimeout = Duration{Duration: 60 * time.Second}
	}

	cfg.Safety = strings.ToLower(strings.TrimSpace(cfg.Safety))
	switch cfg.Safety {
	case "":
		cfg.Safety = SafetyPermissive
	case SafetyPermissive, SafetyDefault:
	default:
		return fmt.Errorf("invalid safety=%q", cfg.Safety)
	}

	seen := map[string]bool{}
	for i := range cfg.Candidates {
		m := &cfg.Candidates[i]
		m.ID = strings.TrimSpace(m.ID)
		if m.ID == "" {
			return errors.New("candidate id is required")
		}
		if seen[m.ID] {
			return fmt.Errorf("duplicate candidate id: %s", m.ID)
		}
		seen[m.ID] = true

		if strings.TrimSpace(m.UpstreamModel) == "" {
			m.UpstreamModel = m.ID
		}

		m.Engine.Type = strings.ToLower(strings.TrimSpace(m.Engine.Type))
		m.Engine.BaseURL = strings.TrimRight(strings.TrimSpace(m.Engine.BaseURL), "/")
		switch m.Engine.Type {
		case "":
			return fmt.Errorf("candidate %q missing engine.type", m.ID)
		case "openai_http":
			m.Engine.Type = EngineOAIHTTP
		case "google", "genai":
			m.Engine.Type = EngineGemini
		}

		switch m.Engine.Type {
		case EngineGemini:
			if err := resolveKey(m, "GEMINI_API_KEY"); err != nil {
				return err
			}
		case EngineOpenAI:
			if err := resolveKey(m, "OPENAI_API_KEY"); err != nil {
				return err
			}
		case EngineOAIHTTP:
			if m.Engine.BaseURL == "" {
				return fmt.Errorf("candidate %q (oai_http) missing engine.base_url", m.ID)
			}
			if m.Engine.ChatCompletionsPath == "" {
				m.Engine.ChatCompletionsPath = "/v1/chat/completions"
			}
			if m.Engine.APIKey == "" && m.Engine.APIKeyEnv != "" {
				m.Engine.APIKey = strings.TrimSpace(os.Getenv(m.Engine.APIKeyEnv))
			}
		case EngineMock:
		default:
			return fmt.Errorf("unsupported engine type %q for candidate %q", m.Engine.Type, m.ID)
		}
		if m.Engine.Timeout.Duration < 0 {
			return fmt.Errorf("candidate %q invalid engine.timeout", m.ID)
		}
	}
	return nil
}

func resolveKey(m *CandidateConfig, defaultEnv string) error {
	if strings.TrimSpace(m.Engine.APIKey) != "" {
		m.Engine.APIKey = strings.TrimSpace(m.Engine.APIKey)
		return nil
	}
	envName := strings.TrimSpace(m.Engine.APIKeyEnv)
	if envName == "" {
		envName = defaultEnv
		m.Engine.APIKeyEnv = envName
	}
	m.Engine.APIKey = strings.TrimSpace(os.Getenv(envName))
	if m.Engine.APIKey == "" {
		return fmt.Errorf("%w: candidate %q requires %s", ErrMissingCredential, m.ID, envName)
	}
	return nil
}
