package config

import (
	"path/filepath"

	"github.com/mrz1836/crewgen/internal/constants"
)

// DefaultConfig returns a Config populated with built-in defaults.
// The SQLite path is resolved against the home directory when available.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:           constants.DefaultLLMBaseURL,
			Model:             constants.DefaultLLMModel,
			APIKeyEnv:         constants.DefaultLLMKeyEnv,
			FallbackAPIKeyEnv: constants.DefaultLLMFallbackKeyEnv,
			Timeout:           constants.DefaultLLMTimeout,
			Temperature:       constants.DefaultLLMTemperature,
		},
		Store: StoreConfig{
			Driver:           constants.StoreDriverSQLite,
			SQLitePath:       defaultSQLitePath(),
			RedisMaxActive:   constants.DefaultRedisMaxActive,
			RedisIdleTimeout: constants.DefaultRedisIdleTimeout,
		},
		Server: ServerConfig{
			Addr:              constants.DefaultServerAddr,
			CORSOrigins:       []string{"*"},
			MaxBodyBytes:      constants.DefaultMaxBodyBytes,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			ShutdownTimeout:   constants.DefaultShutdownTimeout,
		},
		Conversation: ConversationConfig{
			ReplyMode:      ReplyModeHeuristic,
			ContextWindow:  constants.DefaultContextWindow,
			ContextExcerpt: constants.DefaultContextExcerpt,
		},
	}
}

func defaultSQLitePath() string {
	dir, err := GlobalConfigDir()
	if err != nil {
		return filepath.Join(constants.ProjectConfigDir, constants.DatabaseFileName)
	}
	return filepath.Join(dir, constants.DatabaseFileName)
}
