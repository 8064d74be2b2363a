// Package constants provides centralized constant values used throughout crewgen.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by crewgen for organizing data.
const (
	// CrewgenHome is the hidden directory name where crewgen stores all its data.
	// This directory is created in the user's home directory.
	CrewgenHome = ".crewgen"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// Timeout configurations for various operations.
const (
	// DefaultLLMTimeout is the default deadline callers impose on a single
	// language-model completion.
	DefaultLLMTimeout = 2 * time.Minute

	// DefaultReadHeaderTimeout bounds how long the HTTP server waits for request headers.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultShutdownTimeout bounds graceful HTTP server shutdown.
	DefaultShutdownTimeout = 15 * time.Second

	// SSEKeepAliveInterval is the interval between keep-alive comments on event streams.
	SSEKeepAliveInterval = 15 * time.Second
)

// Language model defaults.
const (
	// DefaultLLMBaseURL is the default OpenAI-compatible endpoint.
	DefaultLLMBaseURL = "https://api.openai.com"

	// DefaultLLMModel is the default chat-completion model.
	DefaultLLMModel = "gpt-4o-mini"

	// DefaultLLMKeyEnv is the environment variable holding the platform key.
	DefaultLLMKeyEnv = "CREWGEN_LLM_KEY"

	// DefaultLLMFallbackKeyEnv is consulted when DefaultLLMKeyEnv is unset.
	DefaultLLMFallbackKeyEnv = "OPENAI_API_KEY"

	// DefaultLLMTemperature is the default sampling temperature.
	DefaultLLMTemperature = 0.7
)

// Conversation defaults.
const (
	// MinUserTurnsForReadiness is the number of user utterances required
	// before generation can be considered.
	MinUserTurnsForReadiness = 2

	// DescriptionExcerptLength is the number of characters of the folded
	// corpus embedded in an extracted mission description.
	DescriptionExcerptLength = 300

	// DefaultContextWindow is the number of history entries summarized for
	// conversational prompts.
	DefaultContextWindow = 6

	// DefaultContextExcerpt is the per-entry character limit in a context summary.
	DefaultContextExcerpt = 100

	// SummaryGoalExcerpt is the number of goal characters shown per agent in a team summary.
	SummaryGoalExcerpt = 100
)

// Server defaults.
const (
	// DefaultServerAddr is the default HTTP listen address.
	DefaultServerAddr = ":8001"

	// DefaultMaxBodyBytes is the default request body size limit.
	DefaultMaxBodyBytes int64 = 1 << 20
)

// Store defaults.
const (
	// StoreDriverMemory keeps teams in process memory only.
	StoreDriverMemory = "memory"

	// StoreDriverSQLite persists teams in a local SQLite database.
	StoreDriverSQLite = "sqlite"

	// StoreDriverRedis persists teams in Redis.
	StoreDriverRedis = "redis"

	// DefaultRedisMaxActive is the default Redis pool size.
	DefaultRedisMaxActive = 10

	// DefaultRedisIdleTimeout is the default idle connection timeout.
	DefaultRedisIdleTimeout = 240 * time.Second

	// TeamKeyPrefix namespaces team records in key/value stores.
	TeamKeyPrefix = "crewgen:team:"
)

// Log file rotation.
const (
	// LogMaxSizeMB is the size at which the CLI log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is the number of days rotated log files are kept.
	LogMaxAgeDays = 28

	// LogCompress gzips rotated log files.
	LogCompress = true
)
