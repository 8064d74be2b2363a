// Package voice connects speech-style transports to the conversation engine.
//
// A transport delivers user utterances through a Source and receives replies
// and generated teams through a Sink. The Bridge runs one session over a
// Source/Sink pair. Hub fans turn events out to Server-Sent Event clients.
//
// IMPORTANT: This package may import internal/conversation, internal/constants,
// internal/domain and internal/errors. It MUST NOT import internal/api or
// internal/cli.
package voice

import (
	"context"

	"github.com/mrz1836/crewgen/internal/constants"
	"github.com/mrz1836/crewgen/internal/conversation"
	"github.com/mrz1836/crewgen/internal/domain"
)

// Event types published to transports.
const (
	EventConnected     = "connected"
	EventUserUtterance = "user_utterance"
	EventSpeak         = "speak"
	EventTeamGenerated = "team_generated"
)

// Event is one message delivered to a transport.
type Event struct {
	Type      string                    `json:"type"`
	SessionID string                    `json:"session_id,omitempty"`
	Text      string                    `json:"text,omitempty"`
	Phase     constants.Phase           `json:"phase,omitempty"`
	Team      *domain.TeamConfiguration `json:"team,omitempty"`
}

// Source yields user utterances. Next returns io.EOF when the transport closes.
type Source interface {
	Next(ctx context.Context) (string, error)
}

// Sink receives outgoing replies and generated teams.
type Sink interface {
	Speak(ctx context.Context, text string) error
	TeamGenerated(ctx context.Context, team *domain.TeamConfiguration) error
}

// Deliver sends the outcome of one turn to sink: the reply is spoken, and a
// team generated on this turn follows it.
func Deliver(ctx context.Context, sink Sink, result conversation.TurnResult) error {
	if err := sink.Speak(ctx, result.Reply); err != nil {
		return err
	}
	if result.Team != nil {
		return sink.TeamGenerated(ctx, result.Team)
	}
	return nil
}
