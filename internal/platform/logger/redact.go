package logger

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

const redacted = "[REDACTED]"

// Credentials never reach the log, whatever the nesting.
var secretKeyParts = []string{"token", "authorization", "password", "secret", "cookie", "api_key", "apikey"}

// Prompts carry the whole curriculum and plans run to several kilobytes.
var longTextKeys = map[string]bool{
	"prompt":       true,
	"response":     true,
	"raw_text":     true,
	"body":         true,
	"current_plan": true,
}

type policy struct {
	enabled  bool
	maxChars int
}

var (
	policyOnce sync.Once
	active     policy
)

func currentPolicy() policy {
	policyOnce.Do(func() {
		active = policy{enabled: true, maxChars: 2000}
		switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_REDACTION_ENABLED"))) {
		case "0", "false", "no", "off":
			active.enabled = false
		}
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("LOG_MAX_TEXT_CHARS"))); err == nil {
			active.maxChars = n
		}
	})
	return active
}

func levelFromEnv() (zapcore.Level, bool) {
	raw := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if raw == "" {
		return zapcore.InfoLevel, false
	}
	lvl, err := zapcore.ParseLevel(raw)
	if err != nil {
		return zapcore.InfoLevel, false
	}
	return lvl, true
}

// apply returns kv with secrets masked and long text fields cut. A dangling
// trailing element is kept as is.
func (p policy) apply(kv []interface{}) []interface{} {
	if !p.enabled || len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, len(kv))
	copy(out, kv)
	for i := 0; i+1 < len(out); i += 2 {
		name := keyString(out[i])
		out[i] = name
		out[i+1] = p.value(strings.ToLower(strings.TrimSpace(name)), out[i+1])
	}
	return out
}

func (p policy) value(key string, v interface{}) interface{} {
	switch {
	case key == "":
		return v
	case isSecretKey(key):
		return redacted
	case longTextKeys[key]:
		return p.cut(keyString(v))
	}
	if m, ok := v.(map[string]interface{}); ok && m != nil {
		clean := make(map[string]interface{}, len(m))
		for k, inner := range m {
			clean[k] = p.value(strings.ToLower(strings.TrimSpace(k)), inner)
		}
		return clean
	}
	return v
}

func (p policy) cut(s string) string {
	if p.maxChars <= 0 || len(s) <= p.maxChars {
		return s
	}
	return s[:p.maxChars] + "...(truncated)"
}

func isSecretKey(key string) bool {
	for _, part := range secretKeyParts {
		if strings.Contains(key, part) {
			return true
		}
	}
	return false
}

func keyString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
