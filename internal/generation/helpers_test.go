package generation

import (
	"context"
	"errors"

	"github.com/mrz1836/crewgen/internal/llm"
)

var errDeadlineSeen = errors.New("deadline seen")

// deadlineCompleter fails with errDeadlineSeen when ctx carries a deadline.
type deadlineCompleter struct{}

func (deadlineCompleter) Complete(ctx context.Context, _ *llm.Request) (string, error) {
	if _, ok := ctx.Deadline(); ok {
		return "", errDeadlineSeen
	}
	return "", nil
}
