package cli

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrz1836/crewgen/internal/catalog"
	"github.com/mrz1836/crewgen/internal/config"
	"github.com/mrz1836/crewgen/internal/conversation"
	"github.com/mrz1836/crewgen/internal/generation"
	"github.com/mrz1836/crewgen/internal/llm"
	"github.com/mrz1836/crewgen/internal/store"
)

// app holds the components shared by commands.
type app struct {
	cfg          *config.Config
	logger       zerolog.Logger
	catalog      *catalog.Catalog
	client       *llm.Client
	orchestrator *generation.Orchestrator
}

// newApp loads configuration with the global flag overrides applied and
// builds the language-model client and orchestrator.
func newApp(ctx context.Context, flags *GlobalFlags) (*app, error) {
	overrides := &config.Config{}
	overrides.Store.Driver = flags.StoreDriver
	overrides.LLM.Model = flags.Model

	cfg, err := config.LoadWithOverrides(ctx, overrides)
	if err != nil {
		return nil, err
	}

	logger := *zerolog.Ctx(ctx)
	cat := catalog.Default()
	client := llm.NewClient(&cfg.LLM, llm.WithLogger(logger))

	return &app{
		cfg:     cfg,
		logger:  logger,
		catalog: cat,
		client:  client,
		orchestrator: generation.New(client, cat,
			generation.WithLogger(logger),
			generation.WithTimeout(cfg.LLM.Timeout),
		),
	}, nil
}

// openStore opens the configured team store.
func (a *app) openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, &a.cfg.Store, a.logger)
}

// newEngine builds a conversation engine. A nil saver disables persistence.
func (a *app) newEngine(saver conversation.TeamSaver) (*conversation.Engine, error) {
	responder, err := conversation.NewResponder(&a.cfg.Conversation, a.client, a.cfg.LLM.Model)
	if err != nil {
		return nil, err
	}

	opts := []conversation.EngineOption{
		conversation.WithResponder(responder),
		conversation.WithLogger(a.logger),
		conversation.WithTriggerToken(a.cfg.Conversation.TriggerToken),
	}
	if saver != nil {
		opts = append(opts, conversation.WithSaver(saver))
	}
	return conversation.NewEngine(a.orchestrator, opts...), nil
}

// closeStore closes st and logs any failure.
func (a *app) closeStore(st store.Store) {
	if err := st.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("failed to close team store")
	}
}
