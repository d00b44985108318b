package logger

import (
	"strings"
	"testing"
)

func TestApplyRedactsSecrets(t *testing.T) {
	out := currentPolicy().apply([]interface{}{"api_key", "sk-123", "model", "gemini-1.5-pro", "Authorization", "Bearer x"})
	if len(out) != 6 {
		t.Fatalf("len=%d", len(out))
	}
	if out[1] != redacted {
		t.Fatalf("api_key not redacted: %v", out[1])
	}
	if out[3] != "gemini-1.5-pro" {
		t.Fatalf("model changed: %v", out[3])
	}
	if out[5] != redacted {
		t.Fatalf("authorization not redacted: %v", out[5])
	}
}

func TestApplyTruncatesLongText(t *testing.T) {
	long := strings.Repeat("a", 5000)
	out := currentPolicy().apply([]interface{}{"prompt", long})
	got, ok := out[1].(string)
	if !ok {
		t.Fatalf("prompt value type %T", out[1])
	}
	if len(got) >= len(long) {
		t.Fatalf("prompt not truncated: len=%d", len(got))
	}
	if !strings.HasSuffix(got, "(truncated)") {
		t.Fatalf("missing truncation marker")
	}
}

func TestApplyNestedMap(t *testing.T) {
	in := map[string]interface{}{"password": "x", "candidate": "gemini-1.0-pro"}
	out := currentPolicy().apply([]interface{}{"meta", in})
	m := out[1].(map[string]interface{})
	if m["password"] != redacted || m["candidate"] != "gemini-1.0-pro" {
		t.Fatalf("unexpected: %v", m)
	}
	if in["password"] != "x" {
		t.Fatalf("input map mutated")
	}
}

func TestApplyOddLength(t *testing.T) {
	out := currentPolicy().apply([]interface{}{"candidate", "a", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected: %v", out)
	}
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"production", "development", ""} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		l.With("request_id", "abc").Debug("probe", "prompt", "x")
	}
}
