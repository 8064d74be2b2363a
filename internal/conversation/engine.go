package conversation

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/crewgen/internal/clock"
	"github.com/mrz1836/crewgen/internal/constants"
	"github.com/mrz1836/crewgen/internal/domain"
	"github.com/mrz1836/crewgen/internal/generation"
	"github.com/mrz1836/crewgen/internal/intent"
	"github.com/mrz1836/crewgen/internal/llm"
)

// TeamGenerator produces a team for a generation request.
// *generation.Orchestrator implements it.
type TeamGenerator interface {
	GenerateTeam(ctx context.Context, req domain.GenerationRequest, cred llm.Credential) (*domain.GeneratedTeam, error)
}

// TeamSaver persists a generated team.
type TeamSaver interface {
	SaveTeam(ctx context.Context, team *domain.TeamConfiguration) error
}

// Compile-time check that the orchestrator satisfies TeamGenerator.
var _ TeamGenerator = (*generation.Orchestrator)(nil)

// TurnResult is the outcome of one user utterance.
type TurnResult struct {
	// Reply is the outgoing utterance, already appended to history.
	Reply string `json:"reply"`

	// Phase is the session phase after the turn.
	Phase constants.Phase `json:"phase"`

	// Team is set only on the turn that generated it.
	Team *domain.TeamConfiguration `json:"team,omitempty"`

	// Saved reports whether Team was persisted.
	Saved bool `json:"saved,omitempty"`
}

// Engine drives sessions through the phase state machine.
type Engine struct {
	generator    TeamGenerator
	responder    Responder
	saver        TeamSaver
	clock        clock.Clock
	logger       zerolog.Logger
	triggerToken string
	credential   llm.Credential
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithResponder sets the conversational responder. Default: HeuristicResponder.
func WithResponder(r Responder) EngineOption {
	return func(e *Engine) {
		e.responder = r
	}
}

// WithSaver persists every generated team through s.
func WithSaver(s TeamSaver) EngineOption {
	return func(e *Engine) {
		e.saver = s
	}
}

// WithClock sets the clock used for timestamps.
func WithClock(c clock.Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTriggerToken sets a token that, when present in a reply, is removed
// and forces generation on that turn.
func WithTriggerToken(token string) EngineOption {
	return func(e *Engine) {
		e.triggerToken = strings.TrimSpace(token)
	}
}

// WithCredential sets the credential used for model calls. Default: platform key.
func WithCredential(cred llm.Credential) EngineOption {
	return func(e *Engine) {
		e.credential = cred
	}
}

// NewEngine creates an Engine that generates teams through generator.
func NewEngine(generator TeamGenerator, opts ...EngineOption) *Engine {
	e := &Engine{
		generator: generator,
		responder: HeuristicResponder{},
		clock:     clock.RealClock{},
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With().Str("component", "conversation").Logger()
	return e
}

// Greeting returns the opening utterance for a new session.
// It is not recorded in history.
func (e *Engine) Greeting() string {
	return Greeting
}

// ProcessTurn handles one user utterance and returns the reply.
//
// Each call appends exactly one user entry and then one assistant entry to
// the session history. Concurrent calls on the same session are serialized.
// Generation failures never escape: the reply becomes Apology and the
// session stays in the collecting phase.
func (e *Engine) ProcessTurn(ctx context.Context, s *Session, text string) (TurnResult, error) {
	s.turn.Lock()
	defer s.turn.Unlock()

	if err := ctx.Err(); err != nil {
		return TurnResult{}, err
	}

	logger := e.logger.With().Str("session_id", s.ID()).Logger()

	s.appendTurn(domain.RoleUser, text, e.clock.Now())

	if s.Phase() == constants.PhaseGreeting {
		if err := Transition(ctx, s, constants.PhaseCollecting, e.clock.Now(), "first utterance"); err != nil {
			logger.Error().Err(err).Msg("failed to leave greeting phase")
		}
	}

	phase := s.Phase()
	reply, err := e.responder.Respond(ctx, ResponderInput{
		Phase:      phase,
		History:    s.History(),
		Utterance:  text,
		Credential: e.credential,
	})
	if err != nil {
		logger.Error().Err(err).Msg("conversational reply failed")
		return e.finish(s, TurnResult{Reply: Apology}), nil
	}

	reply, triggered := e.stripTrigger(reply)

	if phase != constants.PhaseCollecting || s.Team() != nil {
		return e.finish(s, TurnResult{Reply: reply}), nil
	}
	if !triggered && !intent.IsReady(s.History()) {
		return e.finish(s, TurnResult{Reply: reply}), nil
	}

	return e.finish(s, e.generate(ctx, s, reply, triggered, logger)), nil
}

// generate runs the generating phase for s and returns the turn result.
func (e *Engine) generate(ctx context.Context, s *Session, reply string, triggered bool, logger zerolog.Logger) TurnResult {
	reason := "ready"
	if triggered {
		reason = "trigger token"
	}
	if err := Transition(ctx, s, constants.PhaseGenerating, e.clock.Now(), reason); err != nil {
		logger.Warn().Err(err).Msg("generation not started")
		return TurnResult{Reply: reply}
	}

	req := intent.Extract(s.History())
	logger.Info().Str("mission", req.Name).Str("reason", reason).Msg("generating team from conversation")

	generated, err := e.generator.GenerateTeam(ctx, req, e.credential)
	if err != nil {
		logger.Error().Err(err).Msg("team generation failed")
		if terr := Transition(context.WithoutCancel(ctx), s, constants.PhaseCollecting, e.clock.Now(), err.Error()); terr != nil {
			logger.Error().Err(terr).Msg("failed to roll back to collecting")
		}
		return TurnResult{Reply: Apology}
	}

	team := generated.Team()
	team.AssignIdentity(e.clock.Now())
	s.setTeam(&team)

	result := TurnResult{
		Reply: reply + "\n\n" + GeneratedNotice + "\n\n" + generation.Summary(&team),
		Team:  &team,
	}

	if e.saver != nil {
		if err := e.saver.SaveTeam(ctx, &team); err != nil {
			logger.Error().Err(err).Str("team_id", team.ID).Msg("failed to save generated team")
		} else {
			result.Saved = true
		}
	}

	if err := Transition(context.WithoutCancel(ctx), s, constants.PhaseReviewing, e.clock.Now(), "team generated"); err != nil {
		logger.Error().Err(err).Msg("failed to enter reviewing phase")
	}

	logger.Info().
		Str("team_id", team.ID).
		Int("agents", len(team.Agents)).
		Bool("saved", result.Saved).
		Msg("team generated from conversation")
	return result
}

// stripTrigger removes the trigger token from reply.
func (e *Engine) stripTrigger(reply string) (string, bool) {
	if e.triggerToken == "" || !strings.Contains(reply, e.triggerToken) {
		return reply, false
	}
	return strings.TrimSpace(strings.ReplaceAll(reply, e.triggerToken, "")), true
}

// finish appends the reply to history and fills in the phase.
func (e *Engine) finish(s *Session, result TurnResult) TurnResult {
	s.appendTurn(domain.RoleAssistant, result.Reply, e.clock.Now())
	result.Phase = s.Phase()
	return result
}
