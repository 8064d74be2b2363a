package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is the pre-built mapping of sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Language model
	// ===================
	{
		err: ErrConfigurationMissing,
		info: ErrorInfo{
			Message: "No language model API key is configured.",
			Action:  "Set CREWGEN_LLM_KEY (or OPENAI_API_KEY), or pass your own key with the request.",
		},
	},
	{
		err: ErrUpstreamUnavailable,
		info: ErrorInfo{
			Message: "The language model service could not be reached.",
			Action:  "Check your network connection and llm.base_url, then retry.",
		},
	},
	{
		err: ErrMalformedGenerationOutput,
		info: ErrorInfo{
			Message: "The language model returned output that could not be understood.",
			Action:  "Retry the request; a different model may produce more reliable JSON.",
		},
	},
	{
		err: ErrEmptyCompletion,
		info: ErrorInfo{
			Message: "The language model returned an empty response.",
			Action:  "Retry the request.",
		},
	},

	// ===================
	// Teams & conversations
	// ===================
	{
		err: ErrTeamNotFound,
		info: ErrorInfo{
			Message: "Team not found.",
			Action:  "Check the team id, or generate a new team.",
		},
	},
	{
		err: ErrSessionNotFound,
		info: ErrorInfo{
			Message: "Conversation not found.",
			Action:  "Start a new conversation.",
		},
	},
	{
		err: ErrGenerationAlreadyTriggered,
		info: ErrorInfo{
			Message: "A team has already been generated for this conversation.",
			Action:  "Start a new conversation to generate another team.",
		},
	},
	{
		err: ErrInvalidTransition,
		info: ErrorInfo{
			Message: "The conversation cannot move to the requested phase.",
		},
	},
	{
		err: ErrInvalidTeam,
		info: ErrorInfo{
			Message: "The team configuration is invalid.",
			Action:  "Make sure every task names an agent that exists in the team.",
		},
	},
	{
		err: ErrInvalidWorkflow,
		info: ErrorInfo{
			Message: "Unknown workflow type.",
			Action:  "Use 'sequential' or 'hierarchical'.",
		},
	},
	{
		err: ErrUnknownTool,
		info: ErrorInfo{
			Message: "Unknown tool.",
			Action:  "Run 'crewgen tools' to list available tools.",
		},
	},
	{
		err: ErrEmptyValue,
		info: ErrorInfo{
			Message: "A required value was empty.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "Configuration could not be loaded.",
		},
	},
	{
		err: ErrConfigInvalidLLM,
		info: ErrorInfo{
			Message: "Invalid llm configuration.",
			Action:  "Run 'crewgen config show' and fix the llm section.",
		},
	},
	{
		err: ErrConfigInvalidStore,
		info: ErrorInfo{
			Message: "Invalid store configuration.",
			Action:  "Run 'crewgen config show' and fix the store section.",
		},
	},
	{
		err: ErrConfigInvalidServer,
		info: ErrorInfo{
			Message: "Invalid server configuration.",
			Action:  "Run 'crewgen config show' and fix the server section.",
		},
	},
	{
		err: ErrConfigInvalidConversation,
		info: ErrorInfo{
			Message: "Invalid conversation configuration.",
			Action:  "Run 'crewgen config show' and fix the conversation section.",
		},
	},
	{
		err: ErrUnsupportedStoreDriver,
		info: ErrorInfo{
			Message: "Unsupported store driver.",
			Action:  "Set store.driver to one of: memory, sqlite, redis.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use --output text or --output json.",
		},
	},
	{
		err: ErrPromptNotFound,
		info: ErrorInfo{
			Message: "Prompt template not found.",
		},
	},

	// ===================
	// User interaction
	// ===================
	{
		err: ErrUserAborted,
		info: ErrorInfo{
			Message: "Operation canceled.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries a direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
