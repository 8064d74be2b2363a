package testutil

import (
	"context"
	"sync"

	"github.com/mrz1836/crewgen/internal/llm"
)

// Compile-time check that FakeCompleter implements llm.Completer.
var _ llm.Completer = (*FakeCompleter)(nil)

// CompletionStep is one scripted Complete outcome.
type CompletionStep struct {
	Text string
	Err  error
}

// FakeCompleter replays scripted completions in order and records every request.
// Once the script is exhausted it returns ErrMockScriptExhausted.
type FakeCompleter struct {
	mu       sync.Mutex
	steps    []CompletionStep
	requests []llm.Request
}

// NewFakeCompleter returns a FakeCompleter that replies with texts in order.
func NewFakeCompleter(texts ...string) *FakeCompleter {
	f := &FakeCompleter{}
	for _, text := range texts {
		f.steps = append(f.steps, CompletionStep{Text: text})
	}
	return f
}

// Then appends a scripted step and returns f for chaining.
func (f *FakeCompleter) Then(text string, err error) *FakeCompleter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, CompletionStep{Text: text, Err: err})
	return f
}

// Complete implements llm.Completer.
func (f *FakeCompleter) Complete(ctx context.Context, req *llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, *req)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(f.steps) == 0 {
		return "", ErrMockScriptExhausted
	}
	step := f.steps[0]
	f.steps = f.steps[1:]
	return step.Text, step.Err
}

// Calls returns the number of Complete calls made so far.
func (f *FakeCompleter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Requests returns a copy of every request received.
func (f *FakeCompleter) Requests() []llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]llm.Request, len(f.requests))
	copy(out, f.requests)
	return out
}
