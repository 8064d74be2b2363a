package config

import (
	"slices"

	"github.com/mrz1836/crewgen/internal/constants"
	"github.com/mrz1836/crewgen/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - llm.base_url and llm.model must not be empty
//   - llm.timeout must be positive; llm.temperature within 0..2
//   - store.driver must be memory, sqlite or redis, with its location set
//   - server.addr must not be empty; server.max_body_bytes positive
//   - conversation.reply_mode must be heuristic or llm
//   - conversation.context_window and context_excerpt must be positive
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateLLMConfig(&cfg.LLM); err != nil {
		return err
	}
	if err := validateStoreConfig(&cfg.Store); err != nil {
		return err
	}
	if err := validateServerConfig(&cfg.Server); err != nil {
		return err
	}
	return validateConversationConfig(&cfg.Conversation)
}

func validateLLMConfig(cfg *LLMConfig) error {
	if cfg.BaseURL == "" {
		return errors.Wrap(errors.ErrConfigInvalidLLM, "llm.base_url must not be empty")
	}
	if cfg.Model == "" {
		return errors.Wrap(errors.ErrConfigInvalidLLM, "llm.model must not be empty")
	}
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidLLM,
			"llm.timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return errors.Wrapf(errors.ErrConfigInvalidLLM,
			"llm.temperature must be between 0 and 2, got %g", cfg.Temperature)
	}
	return nil
}

func validateStoreConfig(cfg *StoreConfig) error {
	switch cfg.Driver {
	case constants.StoreDriverMemory:
	case constants.StoreDriverSQLite:
		if cfg.SQLitePath == "" {
			return errors.Wrap(errors.ErrConfigInvalidStore, "store.sqlite_path must not be empty")
		}
	case constants.StoreDriverRedis:
		if cfg.RedisURL == "" {
			return errors.Wrap(errors.ErrConfigInvalidStore, "store.redis_url must not be empty")
		}
		if cfg.RedisMaxActive < 1 {
			return errors.Wrapf(errors.ErrConfigInvalidStore,
				"store.redis_max_active must be positive, got %d", cfg.RedisMaxActive)
		}
	default:
		return errors.Wrapf(errors.ErrUnsupportedStoreDriver, "store.driver %q", cfg.Driver)
	}
	if cfg.RecordTTL < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidStore,
			"store.record_ttl must not be negative, got %s", cfg.RecordTTL)
	}
	return nil
}

func validateServerConfig(cfg *ServerConfig) error {
	if cfg.Addr == "" {
		return errors.Wrap(errors.ErrConfigInvalidServer, "server.addr must not be empty")
	}
	if cfg.MaxBodyBytes <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidServer,
			"server.max_body_bytes must be positive, got %d", cfg.MaxBodyBytes)
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidServer,
			"server.shutdown_timeout must be positive, got %s", cfg.ShutdownTimeout)
	}
	return nil
}

func validateConversationConfig(cfg *ConversationConfig) error {
	if !slices.Contains([]string{ReplyModeHeuristic, ReplyModeLLM}, cfg.ReplyMode) {
		return errors.Wrapf(errors.ErrConfigInvalidConversation,
			"conversation.reply_mode must be %q or %q, got %q", ReplyModeHeuristic, ReplyModeLLM, cfg.ReplyMode)
	}
	if cfg.ContextWindow < 1 {
		return errors.Wrapf(errors.ErrConfigInvalidConversation,
			"conversation.context_window must be positive, got %d", cfg.ContextWindow)
	}
	if cfg.ContextExcerpt < 1 {
		return errors.Wrapf(errors.ErrConfigInvalidConversation,
			"conversation.context_excerpt must be positive, got %d", cfg.ContextExcerpt)
	}
	return nil
}
