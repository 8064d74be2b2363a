package voice

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/crewgen/internal/conversation"
)

// TurnProcessor handles one utterance for a session.
// *conversation.Engine implements it.
type TurnProcessor interface {
	Greeting() string
	ProcessTurn(ctx context.Context, s *conversation.Session, text string) (conversation.TurnResult, error)
}

var _ TurnProcessor = (*conversation.Engine)(nil)

// Bridge runs a single session over a Source and Sink pair.
type Bridge struct {
	engine  TurnProcessor
	session *conversation.Session
	source  Source
	sink    Sink
	logger  zerolog.Logger
}

// NewBridge creates a Bridge for session.
func NewBridge(engine TurnProcessor, session *conversation.Session, source Source, sink Sink, logger zerolog.Logger) *Bridge {
	return &Bridge{
		engine:  engine,
		session: session,
		source:  source,
		sink:    sink,
		logger:  logger.With().Str("component", "voice").Str("session_id", session.ID()).Logger(),
	}
}

// Run speaks the greeting and then processes utterances until the source
// returns io.EOF or ctx is canceled. Blank utterances are skipped.
// Reaching the end of the source is not an error.
func (b *Bridge) Run(ctx context.Context) error {
	if err := b.sink.Speak(ctx, b.engine.Greeting()); err != nil {
		return err
	}

	for {
		text, err := b.source.Next(ctx)
		if errors.Is(err, io.EOF) {
			b.logger.Debug().Msg("source closed")
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		result, err := b.engine.ProcessTurn(ctx, b.session, text)
		if err != nil {
			return err
		}
		if err := Deliver(ctx, b.sink, result); err != nil {
			return err
		}
	}
}
