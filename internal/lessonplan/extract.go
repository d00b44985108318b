package lessonplan

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Extraction is the result of locating a JSON document in model output.
type Extraction struct {
	// Text is the trimmed model output.
	Text string
	// JSON is the parsed document, nil when none was found.
	JSON json.RawMessage
}

func (e Extraction) IsJSON() bool { return e.JSON != nil }

var fenceRE = regexp.MustCompile("(?s)```[ \\t]*([A-Za-z0-9_+-]*)[ \\t]*\\r?\\n?(.*?)```")

// Extract finds a JSON document in raw model output. Fenced blocks tagged json
// (or untagged) are tried first, then the whole text, then the first balanced
// object or array embedded in prose. Failure is not an error: the result simply
// carries no JSON.
func Extract(raw string) Extraction {
	text := strings.TrimSpace(raw)
	out := Extraction{Text: text}
	if text == "" {
		return out
	}

	for _, cand := range fencedCandidates(text) {
		if doc, ok := parseJSON(cand); ok {
			out.JSON = doc
			return out
		}
	}
	if doc, ok := parseJSON(text); ok {
		out.JSON = doc
		return out
	}
	if cand := firstBalanced(text); cand != "" {
		if doc, ok := parseJSON(cand); ok {
			out.JSON = doc
		}
	}
	return out
}

func fencedCandidates(text string) []string {
	var out []string

	// Opening fence to the last fence in the text. Survives fences nested
	// inside JSON string values (code samples in the practical stage).
	if open := strings.Index(text, "```"); open >= 0 {
		rest := text[open+3:]
		nl := strings.IndexByte(rest, '\n')
		if nl >= 0 && isJSONTag(strings.TrimSpace(rest[:nl])) {
			body := rest[nl+1:]
			if closing := strings.LastIndex(body, "```"); closing >= 0 {
				out = append(out, body[:closing])
			}
		}
	}

	for _, m := range fenceRE.FindAllStringSubmatch(text, -1) {
		if isJSONTag(m[1]) {
			out = append(out, m[2])
		}
	}
	return out
}

func isJSONTag(tag string) bool {
	return tag == "" || strings.EqualFold(tag, "json")
}

func parseJSON(s string) (json.RawMessage, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if !json.Valid([]byte(s)) {
		return nil, false
	}
	return json.RawMessage(s), true
}

// firstBalanced returns the first {...} or [...] span whose brackets balance,
// ignoring brackets inside JSON strings.
func firstBalanced(s string) string {
	start := strings.IndexAny(s, "{[")
	for start >= 0 {
		if end := matchBracket(s, start); end > start {
			return s[start : end+1]
		}
		next := strings.IndexAny(s[start+1:], "{[")
		if next < 0 {
			return ""
		}
		start += next + 1
	}
	return ""
}

func matchBracket(s string, start int) int {
	var stack []byte
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}
