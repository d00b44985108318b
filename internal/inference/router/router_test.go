package router

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/lessonplan-backend/internal/inference/config"
)

func TestNewKeepsOrderAndSharesEngines(t *testing.T) {
	cfg := &config.Config{Candidates: []config.CandidateConfig{
		{ID: "b", Engine: config.EngineConfig{Type: "mock"}},
		{ID: "a", UpstreamModel: "a-up", Engine: config.EngineConfig{Type: "mock"}},
		{ID: "c", Engine: config.EngineConfig{Type: "oai_http", BaseURL: "http://x"}},
	}}
	cands, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ids := IDs(cands)
	if len(ids) != 3 || ids[0] != "b" || ids[1] != "a" || ids[2] != "c" {
		t.Fatalf("ids=%v", ids)
	}
	if cands[0].Engine != cands[1].Engine {
		t.Fatalf("expected shared mock engine")
	}
	if cands[1].UpstreamModel != "a-up" || cands[0].UpstreamModel != "b" {
		t.Fatalf("upstream models=%q,%q", cands[0].UpstreamModel, cands[1].UpstreamModel)
	}
}

func TestNewRejectsUnknownEngine(t *testing.T) {
	_, err := New(context.Background(), &config.Config{Candidates: []config.CandidateConfig{
		{ID: "x", Engine: config.EngineConfig{Type: "carrier-pigeon"}},
	}})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewGeminiWithoutKey(t *testing.T) {
	_, err := New(context.Background(), &config.Config{Candidates: []config.CandidateConfig{
		{ID: "gemini-1.5-pro", Engine: config.EngineConfig{Type: "gemini"}},
	}})
	if !errors.Is(err, config.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}
