package lessonplan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Field is free text produced by the model: either a single string or a list
// of strings. Anything richer (an object, a list holding objects) is kept as
// raw JSON. Every shape round-trips unchanged.
type Field struct {
	text  string
	items []string
	raw   json.RawMessage
}

func Text(s string) Field { return Field{text: s} }

func Items(items ...string) Field {
	if items == nil {
		items = []string{}
	}
	return Field{items: items}
}

func (f Field) IsItems() bool { return f.items != nil }

// IsRaw reports a structured value that is neither text nor a list of text.
func (f Field) IsRaw() bool { return f.raw != nil }

// Raw returns the structured value as received, or nil for text and lists.
func (f Field) Raw() json.RawMessage { return f.raw }

func (f Field) IsZero() bool { return f.items == nil && f.text == "" && f.raw == nil }

// Lines returns the field as a list; a text field becomes one line and a raw
// value becomes its compact JSON.
func (f Field) Lines() []string {
	if f.raw != nil {
		return []string{f.String()}
	}
	if f.items != nil {
		out := make([]string, len(f.items))
		copy(out, f.items)
		return out
	}
	if f.text == "" {
		return nil
	}
	return []string{f.text}
}

// String renders the field as text, one item per line.
func (f Field) String() string {
	if f.raw != nil {
		var buf bytes.Buffer
		if err := json.Compact(&buf, f.raw); err != nil {
			return string(f.raw)
		}
		return buf.String()
	}
	if f.items != nil {
		return strings.Join(f.items, "\n")
	}
	return f.text
}

func (f Field) MarshalJSON() ([]byte, error) {
	if f.raw != nil {
		return f.raw, nil
	}
	if f.items != nil {
		return json.Marshal(f.items)
	}
	return json.Marshal(f.text)
}

func (f *Field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*f = Field{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '"':
		return json.Unmarshal(b, &f.text)
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, r := range raw {
			s, ok := scalarText(r)
			if !ok {
				f.raw = append(json.RawMessage(nil), b...)
				return nil
			}
			items = append(items, s)
		}
		f.items = items
		return nil
	case '{':
		if !json.Valid(b) {
			return fmt.Errorf("invalid JSON object")
		}
		f.raw = append(json.RawMessage(nil), b...)
		return nil
	default:
		s, ok := scalarText(b)
		if !ok {
			return fmt.Errorf("invalid JSON value %q", string(b))
		}
		f.text = s
		return nil
	}
}

// scalarText accepts strings, numbers and booleans; models sometimes emit ids
// as numbers. Objects and arrays are not scalars.
func scalarText(b json.RawMessage) (string, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return "", false
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[':
		return "", false
	case 'n':
		return "", true
	default:
		var v any
		if err := json.Unmarshal(b, &v); err != nil {
			return "", false
		}
		return string(b), true
	}
}
