package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/mrz1836/crewgen/internal/llm"
)

func TestFakeCompleter_ReplaysScript(t *testing.T) {
	f := NewFakeCompleter("first").Then("", ErrMockNetwork)

	got, err := f.Complete(context.Background(), &llm.Request{Prompt: "a"})
	if err != nil || got != "first" {
		t.Fatalf("Complete() = %q, %v; want %q, nil", got, err, "first")
	}

	_, err = f.Complete(context.Background(), &llm.Request{Prompt: "b"})
	if !errors.Is(err, ErrMockNetwork) {
		t.Fatalf("Complete() error = %v, want ErrMockNetwork", err)
	}

	_, err = f.Complete(context.Background(), &llm.Request{Prompt: "c"})
	if !errors.Is(err, ErrMockScriptExhausted) {
		t.Fatalf("Complete() error = %v, want ErrMockScriptExhausted", err)
	}

	if f.Calls() != 3 {
		t.Errorf("Calls() = %d, want 3", f.Calls())
	}
	if reqs := f.Requests(); reqs[1].Prompt != "b" {
		t.Errorf("Requests()[1].Prompt = %q, want %q", reqs[1].Prompt, "b")
	}
}
