package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yungbote/lessonplan-backend/internal/inference/engine"
)

// Reply is one scripted upstream outcome.
type Reply struct {
	Text  string
	Err   error
	Delay time.Duration
	// Block waits until the call context is done.
	Block bool
}

type Call struct {
	Model    string
	Messages []engine.Message
	Opts     engine.GenerateOptions
}

// Scripted replays per-model replies in order; the last reply for a model repeats.
type Scripted struct {
	mu      sync.Mutex
	replies map[string][]Reply
	calls   []Call
}

func NewScripted() *Scripted {
	return &Scripted{replies: map[string][]Reply{}}
}

func (s *Scripted) On(model string, replies ...Reply) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[model] = append(s.replies[model], replies...)
	return s
}

func (s *Scripted) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Model: model, Messages: messages, Opts: opts})
	queue := s.replies[model]
	if len(queue) == 0 {
		s.mu.Unlock()
		return "", fmt.Errorf("mock: no reply scripted for model %q", model)
	}
	r := queue[0]
	if len(queue) > 1 {
		s.replies[model] = queue[1:]
	}
	s.mu.Unlock()

	if r.Block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if r.Delay > 0 {
		t := time.NewTimer(r.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}
	if r.Err != nil {
		return "", r.Err
	}
	return r.Text, nil
}

func (s *Scripted) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Scripted) CallCount(model string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Model == model {
			n++
		}
	}
	return n
}

// Models returns the models called, in call order.
func (s *Scripted) Models() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.Model)
	}
	return out
}
