// Package config provides configuration management for crewgen with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (CREWGEN_* prefix)
//  3. Project config (.crewgen/config.yaml)
//  4. Global config (~/.crewgen/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import (
	"os"
	"strings"
	"time"
)

// Config is the root configuration structure for crewgen.
type Config struct {
	// LLM contains settings for the OpenAI-compatible completion service.
	LLM LLMConfig `yaml:"llm" mapstructure:"llm" json:"llm"`

	// Store contains settings for team persistence.
	Store StoreConfig `yaml:"store" mapstructure:"store" json:"store"`

	// Server contains settings for the HTTP API.
	Server ServerConfig `yaml:"server" mapstructure:"server" json:"server"`

	// Conversation contains settings for the dialogue state machine.
	Conversation ConversationConfig `yaml:"conversation" mapstructure:"conversation" json:"conversation"`
}

// LLMConfig contains settings for language-model calls.
type LLMConfig struct {
	// BaseURL is the OpenAI-compatible API root, without the /v1 suffix.
	// Default: https://api.openai.com
	BaseURL string `yaml:"base_url" mapstructure:"base_url" json:"base_url"`

	// Model is the chat-completion model name.
	// Default: gpt-4o-mini
	Model string `yaml:"model" mapstructure:"model" json:"model"`

	// APIKeyEnv names the environment variable holding the platform key.
	// Default: CREWGEN_LLM_KEY
	APIKeyEnv string `yaml:"api_key_env" mapstructure:"api_key_env" json:"api_key_env"`

	// FallbackAPIKeyEnv is consulted when APIKeyEnv is unset or empty.
	// Default: OPENAI_API_KEY
	FallbackAPIKeyEnv string `yaml:"fallback_api_key_env" mapstructure:"fallback_api_key_env" json:"fallback_api_key_env"`

	// Timeout is the deadline callers apply to one completion.
	// Default: 2 minutes
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" json:"timeout"`

	// Temperature is the sampling temperature, 0 to 2.
	// Default: 0.7
	Temperature float64 `yaml:"temperature" mapstructure:"temperature" json:"temperature"`
}

// PlatformAPIKey returns the platform key from the configured environment
// variables, or "" when neither is set.
func (c *LLMConfig) PlatformAPIKey() string {
	for _, name := range []string{c.APIKeyEnv, c.FallbackAPIKeyEnv} {
		if name == "" {
			continue
		}
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key
		}
	}
	return ""
}

// StoreConfig contains settings for team persistence.
type StoreConfig struct {
	// Driver selects the backend: memory, sqlite, or redis.
	// Default: sqlite
	Driver string `yaml:"driver" mapstructure:"driver" json:"driver"`

	// SQLitePath is the database file for the sqlite driver.
	// Default: ~/.crewgen/crewgen.db
	SQLitePath string `yaml:"sqlite_path" mapstructure:"sqlite_path" json:"sqlite_path"`

	// RedisURL is the connection URL for the redis driver.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url" json:"redis_url"`

	// RedisMaxActive is the maximum number of pooled connections.
	RedisMaxActive int `yaml:"redis_max_active" mapstructure:"redis_max_active" json:"redis_max_active"`

	// RedisIdleTimeout closes pooled connections idle for longer than this.
	RedisIdleTimeout time.Duration `yaml:"redis_idle_timeout" mapstructure:"redis_idle_timeout" json:"redis_idle_timeout"`

	// RecordTTL expires stored teams after this duration. Zero keeps them forever.
	// Only the redis driver honors it.
	RecordTTL time.Duration `yaml:"record_ttl" mapstructure:"record_ttl" json:"record_ttl"`
}

// ServerConfig contains settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: :8001
	Addr string `yaml:"addr" mapstructure:"addr" json:"addr"`

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins" json:"cors_origins"`

	// MaxBodyBytes limits request body size.
	MaxBodyBytes int64 `yaml:"max_body_bytes" mapstructure:"max_body_bytes" json:"max_body_bytes"`

	// ReadHeaderTimeout bounds header reads.
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" mapstructure:"read_header_timeout" json:"read_header_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" json:"shutdown_timeout"`
}

// Reply modes for the conversation engine.
const (
	ReplyModeHeuristic = "heuristic"
	ReplyModeLLM       = "llm"
)

// ConversationConfig contains settings for the dialogue state machine.
type ConversationConfig struct {
	// ReplyMode selects how non-generation replies are produced.
	// Default: heuristic
	ReplyMode string `yaml:"reply_mode" mapstructure:"reply_mode" json:"reply_mode"`

	// SystemPrompt overrides the conversation system prompt template.
	// It may reference {{.State}} and {{.Context}}.
	SystemPrompt string `yaml:"system_prompt" mapstructure:"system_prompt" json:"system_prompt"`

	// TriggerToken, when present in an LLM reply, is stripped and forces generation.
	TriggerToken string `yaml:"trigger_token" mapstructure:"trigger_token" json:"trigger_token"`

	// ContextWindow is the number of recent entries summarized for the LLM.
	ContextWindow int `yaml:"context_window" mapstructure:"context_window" json:"context_window"`

	// ContextExcerpt is the per-entry character limit in the summary.
	ContextExcerpt int `yaml:"context_excerpt" mapstructure:"context_excerpt" json:"context_excerpt"`
}
