package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HarmCategory and HarmThreshold use the Gemini API enum spellings.
type HarmCategory string

type HarmThreshold string

const (
	HarmCategoryHateSpeech       HarmCategory = "HARM_CATEGORY_HATE_SPEECH"
	HarmCategorySexuallyExplicit HarmCategory = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
	HarmCategoryHarassment       HarmCategory = "HARM_CATEGORY_HARASSMENT"
	HarmCategoryDangerousContent HarmCategory = "HARM_CATEGORY_DANGEROUS_CONTENT"

	HarmBlockNone           HarmThreshold = "BLOCK_NONE"
	HarmBlockOnlyHigh       HarmThreshold = "BLOCK_ONLY_HIGH"
	HarmBlockMediumAndAbove HarmThreshold = "BLOCK_MEDIUM_AND_ABOVE"
	HarmBlockLowAndAbove    HarmThreshold = "BLOCK_LOW_AND_ABOVE"
)

type SafetySetting struct {
	Category  HarmCategory
	Threshold HarmThreshold
}

// PermissiveSafety disables blocking on every harm category.
func PermissiveSafety() []SafetySetting {
	return []SafetySetting{
		{Category: HarmCategoryHateSpeech, Threshold: HarmBlockNone},
		{Category: HarmCategorySexuallyExplicit, Threshold: HarmBlockNone},
		{Category: HarmCategoryHarassment, Threshold: HarmBlockNone},
		{Category: HarmCategoryDangerousContent, Threshold: HarmBlockNone},
	}
}

type GenerateOptions struct {
	Temperature *float64
	Safety      []SafetySetting
}

type Engine interface {
	GenerateText(ctx context.Context, model string, messages []Message, opts GenerateOptions) (string, error)
}

// ErrEmptyResponse is returned when the upstream answered without any text.
var ErrEmptyResponse = errors.New("empty upstream response")

// UpstreamError wraps a failure reported by an upstream model API.
type UpstreamError struct {
	Engine     string
	Model      string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "upstream error"
	}
	var b strings.Builder
	b.WriteString(e.Engine)
	if e.Model != "" {
		b.WriteString(" ")
		b.WriteString(e.Model)
	}
	b.WriteString(":")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// LastUserContent returns the content of the most recent user message.
func LastUserContent(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.EqualFold(messages[i].Role, RoleUser) {
			return messages[i].Content
		}
	}
	return ""
}
