// Package testutil provides test doubles shared by crewgen's package tests:
// a scripted language-model completer and the mock errors it and the tests
// inject. It should only be imported by test files (*_test.go).
package testutil

import "errors"

var (
	// ErrMockNetwork simulates a transport failure below the completion client.
	ErrMockNetwork = errors.New("network error")

	// ErrMockStoreUnavailable simulates a team store that rejects writes.
	ErrMockStoreUnavailable = errors.New("team store unavailable")

	// ErrMockSinkClosed simulates a speech or console sink that went away.
	ErrMockSinkClosed = errors.New("sink closed")

	// ErrMockScriptExhausted is returned by FakeCompleter when no scripted reply is left.
	ErrMockScriptExhausted = errors.New("no scripted completion left")
)
