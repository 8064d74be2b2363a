package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/crewgen/internal/errors"
)

// newViperInstance creates a new Viper instance with standard crewgen configuration.
// This includes environment variable prefix (CREWGEN_), key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("CREWGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.Store.SQLitePath = ExpandHome(cfg.Store.SQLitePath)
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (CREWGEN_* prefix)
//  2. Project config (.crewgen/config.yaml)
//  3. Global config (~/.crewgen/config.yaml)
//  4. Built-in defaults
//
// For CLI flag overrides, use LoadWithOverrides instead.
// Missing config files are not an error.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	// Global config provides user-wide defaults that can be overridden per-project
	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("llm.model", cfg.LLM.Model).
		Str("store.driver", cfg.Store.Driver).
		Str("conversation.reply_mode", cfg.Conversation.ReplyMode).
		Msg("configuration loaded")

	return cfg, nil
}

// loadGlobalConfig attempts to load the global config file (~/.crewgen/config.yaml).
// Returns nil if the file doesn't exist or home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, err := GlobalConfigPath()
	if err != nil || !fileExists(globalConfigPath) {
		return nil //nolint:nilerr // missing home directory means no global config
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// loadProjectConfig attempts to load the project config file (.crewgen/config.yaml).
func loadProjectConfig(v *viper.Viper) error {
	projectConfigPath := ProjectConfigPath()
	if !fileExists(projectConfigPath) {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths for testing.
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key_env", d.LLM.APIKeyEnv)
	v.SetDefault("llm.fallback_api_key_env", d.LLM.FallbackAPIKeyEnv)
	v.SetDefault("llm.timeout", d.LLM.Timeout.String())
	v.SetDefault("llm.temperature", d.LLM.Temperature)

	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.sqlite_path", d.Store.SQLitePath)
	v.SetDefault("store.redis_url", "")
	v.SetDefault("store.redis_max_active", d.Store.RedisMaxActive)
	v.SetDefault("store.redis_idle_timeout", d.Store.RedisIdleTimeout.String())
	v.SetDefault("store.record_ttl", "0s")

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	v.SetDefault("server.read_header_timeout", d.Server.ReadHeaderTimeout.String())
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout.String())

	v.SetDefault("conversation.reply_mode", d.Conversation.ReplyMode)
	v.SetDefault("conversation.system_prompt", "")
	v.SetDefault("conversation.trigger_token", "")
	v.SetDefault("conversation.context_window", d.Conversation.ContextWindow)
	v.SetDefault("conversation.context_excerpt", d.Conversation.ContextExcerpt)
}

// applyOverrides merges non-zero override values into the config.
func applyOverrides(cfg, overrides *Config) {
	applyLLMOverrides(cfg, overrides)
	applyStoreOverrides(cfg, overrides)

	if overrides.Server.Addr != "" {
		cfg.Server.Addr = overrides.Server.Addr
	}
	if len(overrides.Server.CORSOrigins) > 0 {
		cfg.Server.CORSOrigins = overrides.Server.CORSOrigins
	}

	if overrides.Conversation.ReplyMode != "" {
		cfg.Conversation.ReplyMode = overrides.Conversation.ReplyMode
	}
	if overrides.Conversation.TriggerToken != "" {
		cfg.Conversation.TriggerToken = overrides.Conversation.TriggerToken
	}
}

func applyLLMOverrides(cfg, overrides *Config) {
	if overrides.LLM.BaseURL != "" {
		cfg.LLM.BaseURL = overrides.LLM.BaseURL
	}
	if overrides.LLM.Model != "" {
		cfg.LLM.Model = overrides.LLM.Model
	}
	if overrides.LLM.Timeout != 0 {
		cfg.LLM.Timeout = overrides.LLM.Timeout
	}
}

func applyStoreOverrides(cfg, overrides *Config) {
	if overrides.Store.Driver != "" {
		cfg.Store.Driver = overrides.Store.Driver
	}
	if overrides.Store.SQLitePath != "" {
		cfg.Store.SQLitePath = ExpandHome(overrides.Store.SQLitePath)
	}
	if overrides.Store.RedisURL != "" {
		cfg.Store.RedisURL = overrides.Store.RedisURL
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// Durations decode from strings and lists from comma-separated environment values.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
