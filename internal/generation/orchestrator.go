// Package generation turns mission requests into validated team entities
// through a single language-model call.
//
// Two modes are provided. GenerateTeam asks for a full team and fails on
// malformed output. GeneratePersona asks for one agent's goal and backstory
// and falls back to fixed wording when the output cannot be used.
//
// IMPORTANT: This package may import internal/catalog, internal/clock,
// internal/constants, internal/ctxutil, internal/domain, internal/errors,
// internal/llm and internal/prompts. It MUST NOT import internal/conversation,
// internal/api, or internal/cli.
package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/crewgen/internal/catalog"
	"github.com/mrz1836/crewgen/internal/clock"
	"github.com/mrz1836/crewgen/internal/ctxutil"
	"github.com/mrz1836/crewgen/internal/domain"
	crewerrors "github.com/mrz1836/crewgen/internal/errors"
	"github.com/mrz1836/crewgen/internal/llm"
	"github.com/mrz1836/crewgen/internal/prompts"
)

// Orchestrator builds prompts, calls the completer once, and validates the result.
type Orchestrator struct {
	completer llm.Completer
	catalog   *catalog.Catalog
	clock     clock.Clock
	logger    zerolog.Logger
	timeout   time.Duration
	model     string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the clock used for mission timestamps.
func WithClock(c clock.Clock) Option {
	return func(o *Orchestrator) {
		o.clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithTimeout bounds each completion call. Zero means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.timeout = d
	}
}

// WithModel overrides the completer's default model.
func WithModel(model string) Option {
	return func(o *Orchestrator) {
		o.model = model
	}
}

// New creates an Orchestrator. A nil catalog uses catalog.Default().
func New(completer llm.Completer, cat *catalog.Catalog, opts ...Option) *Orchestrator {
	if cat == nil {
		cat = catalog.Default()
	}
	o := &Orchestrator{
		completer: completer,
		catalog:   cat,
		clock:     clock.RealClock{},
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With().Str("component", "generation").Logger()
	return o
}

// Catalog returns the catalog embedded in team prompts.
func (o *Orchestrator) Catalog() *catalog.Catalog {
	return o.catalog
}

// GenerateTeam asks for a full team for req.
//
// Returns an error wrapped with errors.ErrEmptyValue when the mission name or
// objective is blank, errors.ErrMalformedGenerationOutput when the reply is not
// a usable team, or the completer's error unchanged.
func (o *Orchestrator) GenerateTeam(ctx context.Context, req domain.GenerationRequest, cred llm.Credential) (*domain.GeneratedTeam, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if !req.Validate() {
		return nil, fmt.Errorf("mission name and objective are required: %w", crewerrors.ErrEmptyValue)
	}

	system, err := prompts.Render(prompts.TeamSystem, nil)
	if err != nil {
		return nil, err
	}
	prompt, err := prompts.Render(prompts.TeamGenerate, prompts.TeamGenerateData{
		MissionName: req.Name,
		Objective:   req.Objective,
		Description: req.Description,
		Tools:       o.catalog.All(),
	})
	if err != nil {
		return nil, err
	}

	o.logger.Info().Str("mission", req.Name).Msg("generating team")

	text, err := o.complete(ctx, &llm.Request{
		System:     system,
		Prompt:     prompt,
		Model:      o.model,
		JSON:       true,
		Credential: cred,
	})
	if err != nil {
		o.logger.Error().Err(err).Str("mission", req.Name).Msg("team generation call failed")
		return nil, err
	}

	payload, err := parseTeamPayload(text)
	if err != nil {
		o.logger.Warn().Err(err).Int("response_len", len(text)).Msg("team generation returned malformed output")
		return nil, err
	}

	team := o.buildTeam(req, payload)
	o.logger.Info().
		Str("mission", team.Mission.Name).
		Int("tasks", len(team.Tasks)).
		Int("agents", len(team.Agents)).
		Int("tools", len(team.RecommendedTools)).
		Str("workflow", team.WorkflowType.String()).
		Msg("team generated")
	return team, nil
}

// GeneratePersona asks for a goal and backstory for req.Role.
//
// Output that is not a JSON object with both fields yields FallbackPersona and
// no error. Completer errors are returned unchanged.
func (o *Orchestrator) GeneratePersona(ctx context.Context, req domain.PersonaRequest, cred llm.Credential) (domain.Persona, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return domain.Persona{}, err
	}
	if !req.Validate() {
		return domain.Persona{}, fmt.Errorf("role is required: %w", crewerrors.ErrEmptyValue)
	}

	system, err := prompts.Render(prompts.PersonaSystem, nil)
	if err != nil {
		return domain.Persona{}, err
	}
	prompt, err := prompts.Render(prompts.PersonaGenerate, prompts.PersonaData{
		Role:            req.Role,
		TaskDescription: req.TaskDescription,
	})
	if err != nil {
		return domain.Persona{}, err
	}

	text, err := o.complete(ctx, &llm.Request{
		System:     system,
		Prompt:     prompt,
		Model:      o.model,
		Credential: cred,
	})
	if err != nil {
		o.logger.Error().Err(err).Str("role", req.Role).Msg("persona generation call failed")
		return domain.Persona{}, err
	}

	persona, err := parsePersona(text)
	if err != nil {
		o.logger.Debug().Err(err).Str("role", req.Role).Msg("using fallback persona")
		return FallbackPersona(req.Role), nil
	}
	return persona, nil
}

// complete applies the configured deadline around one completer call.
func (o *Orchestrator) complete(ctx context.Context, req *llm.Request) (string, error) {
	ctx, cancel := ctxutil.WithOptionalTimeout(ctx, o.timeout)
	defer cancel()
	return o.completer.Complete(ctx, req)
}
