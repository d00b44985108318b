package lessonplan

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Category is the coarse reason a generation failed after every candidate was tried.
type Category string

const (
	CategoryUnavailable Category = "upstream_unavailable"
	CategoryNotFound    Category = "upstream_not_found"
	CategoryExhausted   Category = "upstream_exhausted"
)

var (
	// ErrCanceled is returned when the caller's context ends mid-generation.
	ErrCanceled = errors.New("generation canceled")
	// ErrAttemptTimeout marks a candidate that did not answer within the attempt timeout.
	ErrAttemptTimeout = errors.New("candidate attempt timed out")
	// ErrNoCandidates is returned by NewOrchestrator for an empty candidate list.
	ErrNoCandidates = errors.New("no generation candidates configured")
)

// GenerationError is returned once every candidate has failed. Message is safe
// to show to end users; Cause keeps the last upstream error for logs.
type GenerationError struct {
	Category Category
	Action   Action
	Message  string
	Attempts int
	Cause    error
}

func (e *GenerationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s %s after %d attempts", e.Action, e.Category, e.Attempts)
	}
	return fmt.Sprintf("%s %s after %d attempts: %v", e.Action, e.Category, e.Attempts, e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

type httpStatusCoder interface {
	HTTPStatusCode() int
}

// ClassifyFailure maps the last candidate error to a category and a user message.
func ClassifyFailure(action Action, attempts int, last error) *GenerationError {
	cat := categorize(last)
	return &GenerationError{
		Category: cat,
		Action:   action,
		Message:  userMessage(action, cat),
		Attempts: attempts,
		Cause:    last,
	}
}

func categorize(err error) Category {
	if err == nil {
		return CategoryExhausted
	}
	var coder httpStatusCoder
	if errors.As(err, &coder) {
		switch coder.HTTPStatusCode() {
		case http.StatusServiceUnavailable, http.StatusTooManyRequests:
			return CategoryUnavailable
		case http.StatusNotFound:
			return CategoryNotFound
		}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "503 Service Unavailable"),
		strings.Contains(strings.ToLower(msg), "overloaded"),
		strings.Contains(msg, "UNAVAILABLE"),
		strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return CategoryUnavailable
	case strings.Contains(msg, "404 Not Found"),
		strings.Contains(msg, "NOT_FOUND"):
		return CategoryNotFound
	default:
		return CategoryExhausted
	}
}

func userMessage(action Action, cat Category) string {
	chat := action == ActionChat
	switch cat {
	case CategoryUnavailable:
		if chat {
			return "No momento, os modelos de IA estão sobrecarregados para chat. Por favor, tente novamente mais tarde."
		}
		return "No momento, os modelos de IA estão sobrecarregados. Por favor, tente novamente mais tarde."
	case CategoryNotFound:
		if chat {
			return "Não foi possível encontrar um modelo de IA disponível para chat."
		}
		return "Não foi possível encontrar um modelo de IA disponível para a geração de conteúdo."
	default:
		if chat {
			return "Falha ao interagir com a IA para chat após múltiplas tentativas. Verifique os logs para mais detalhes."
		}
		return "Falha ao gerar o plano de aula da IA após múltiplas tentativas. Verifique os logs para mais detalhes."
	}
}
