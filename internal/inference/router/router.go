package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/lessonplan-backend/internal/inference/config"
	"github.com/yungbote/lessonplan-backend/internal/inference/engine"
	"github.com/yungbote/lessonplan-backend/internal/inference/engine/gemini"
	"github.com/yungbote/lessonplan-backend/internal/inference/engine/mock"
	"github.com/yungbote/lessonplan-backend/internal/inference/engine/oaihttp"
	"github.com/yungbote/lessonplan-backend/internal/inference/engine/openai"
)

// Candidate is one entry of the ordered fallback list.
type Candidate struct {
	ID            string
	UpstreamModel string
	Engine        engine.Engine
}

// New builds the candidates in configured order. Candidates with identical
// engine settings share one engine instance.
func New(ctx context.Context, cfg *config.Config) ([]Candidate, error) {
	if cfg == nil || len(cfg.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates configured")
	}
	engines := map[string]engine.Engine{}
	seen := map[string]bool{}
	out := make([]Candidate, 0, len(cfg.Candidates))

	for _, m := range cfg.Candidates {
		id := strings.TrimSpace(m.ID)
		if id == "" {
			return nil, fmt.Errorf("candidate id required")
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate candidate id: %s", id)
		}
		seen[id] = true

		key := engineKey(m.Engine)
		eng, ok := engines[key]
		if !ok {
			var err error
			eng, err = newEngine(ctx, m.Engine)
			if err != nil {
				return nil, fmt.Errorf("candidate %q: %w", id, err)
			}
			engines[key] = eng
		}

		upstream := strings.TrimSpace(m.UpstreamModel)
		if upstream == "" {
			upstream = id
		}
		out = append(out, Candidate{ID: id, UpstreamModel: upstream, Engine: eng})
	}
	return out, nil
}

func newEngine(ctx context.Context, ec config.EngineConfig) (engine.Engine, error) {
	switch strings.ToLower(strings.TrimSpace(ec.Type)) {
	case config.EngineMock:
		return mock.New(), nil
	case config.EngineGemini:
		return gemini.New(ctx, ec)
	case config.EngineOpenAI:
		return openai.New(ec)
	case config.EngineOAIHTTP, "openai_http":
		return oaihttp.New(ec)
	default:
		return nil, fmt.Errorf("unsupported engine type %q", ec.Type)
	}
}

func engineKey(ec config.EngineConfig) string {
	return strings.Join([]string{
		strings.ToLower(ec.Type),
		ec.BaseURL,
		ec.APIKey,
		ec.ChatCompletionsPath,
		ec.Timeout.Duration.String(),
	}, "|")
}

// IDs lists candidate ids in order.
func IDs(cands []Candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.ID)
	}
	return out
}
