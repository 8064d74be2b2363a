package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrz1836/crewgen/internal/config"
	"github.com/mrz1836/crewgen/internal/constants"
	"github.com/mrz1836/crewgen/internal/domain"
	crewerrors "github.com/mrz1836/crewgen/internal/errors"
	"github.com/mrz1836/crewgen/internal/llm"
	"github.com/mrz1836/crewgen/internal/prompts"
)

// Fixed utterances.
const (
	// Greeting opens every new conversation.
	Greeting = "Hello! I'm your AI voice assistant. What kind of project or business goal would you like help with today?"

	// Apology replaces the reply when a turn cannot be completed.
	Apology = "I apologize, but I encountered an issue. Could you please repeat that?"

	// GeneratedNotice follows the reply on the turn that produced a team.
	GeneratedNotice = "Great! I've created your AI agent team. Let me tell you about the specialists I've assembled for you..."

	// NoHistory is the context summary of an empty conversation.
	NoHistory = "No conversation history yet."
)

// Heuristic replies.
const (
	replyMarketing = "That sounds like a great marketing project! Can you tell me more about your target audience?"
	replyWebsite   = "Interesting! Are you looking to improve performance, increase traffic, or enhance user experience?"
	replyDefault   = "I understand! Let me create the perfect AI team for your needs."
)

// ResponderInput is what a Responder sees for one turn.
// History already contains the incoming utterance.
type ResponderInput struct {
	Phase      constants.Phase
	History    []domain.Turn
	Utterance  string
	Credential llm.Credential
}

// Responder produces the conversational part of a reply.
type Responder interface {
	Respond(ctx context.Context, in ResponderInput) (string, error)
}

// HeuristicResponder replies from a fixed keyword table without any model call.
type HeuristicResponder struct{}

// Respond implements Responder.
func (HeuristicResponder) Respond(_ context.Context, in ResponderInput) (string, error) {
	text := strings.ToLower(in.Utterance)
	switch {
	case strings.Contains(text, "marketing") || strings.Contains(text, "sales"):
		return replyMarketing, nil
	case strings.Contains(text, "website") || strings.Contains(text, "online"):
		return replyWebsite, nil
	default:
		return replyDefault, nil
	}
}

// LLMResponder asks the completer for a reply, steering it with the
// conversation system prompt, the current phase, and a context summary.
type LLMResponder struct {
	completer    llm.Completer
	systemPrompt string
	window       int
	excerpt      int
	model        string
}

// NewLLMResponder creates an LLMResponder from cfg. A nil cfg uses defaults.
func NewLLMResponder(completer llm.Completer, cfg *config.ConversationConfig, model string) *LLMResponder {
	r := &LLMResponder{
		completer: completer,
		window:    constants.DefaultContextWindow,
		excerpt:   constants.DefaultContextExcerpt,
		model:     model,
	}
	if cfg != nil {
		r.systemPrompt = cfg.SystemPrompt
		if cfg.ContextWindow > 0 {
			r.window = cfg.ContextWindow
		}
		if cfg.ContextExcerpt > 0 {
			r.excerpt = cfg.ContextExcerpt
		}
	}
	return r
}

// Respond implements Responder.
func (r *LLMResponder) Respond(ctx context.Context, in ResponderInput) (string, error) {
	system, err := r.system(in)
	if err != nil {
		return "", err
	}
	reply, err := r.completer.Complete(ctx, &llm.Request{
		System:     system,
		Prompt:     in.Utterance,
		Model:      r.model,
		Credential: in.Credential,
	})
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("%w: %w", crewerrors.ErrUpstreamUnavailable, crewerrors.ErrEmptyCompletion)
	}
	return reply, nil
}

// system renders the system prompt for in.
func (r *LLMResponder) system(in ResponderInput) (string, error) {
	data := prompts.ConversationData{
		State:   in.Phase.String(),
		Context: ContextSummary(in.History, r.window, r.excerpt),
	}
	if r.systemPrompt != "" {
		return prompts.RenderText("conversation/custom", r.systemPrompt, data)
	}
	return prompts.Render(prompts.ConversationSystem, data)
}

// NewResponder selects a Responder for the configured reply mode.
func NewResponder(cfg *config.ConversationConfig, completer llm.Completer, model string) (Responder, error) {
	mode := config.ReplyModeHeuristic
	if cfg != nil && cfg.ReplyMode != "" {
		mode = cfg.ReplyMode
	}
	switch mode {
	case config.ReplyModeHeuristic:
		return HeuristicResponder{}, nil
	case config.ReplyModeLLM:
		return NewLLMResponder(completer, cfg, model), nil
	default:
		return nil, fmt.Errorf("%w: unknown reply mode %q", crewerrors.ErrConfigInvalidConversation, mode)
	}
}

// ContextSummary describes the last window entries of history, each cut to
// excerpt characters.
func ContextSummary(history []domain.Turn, window, excerpt int) string {
	if len(history) == 0 {
		return NoHistory
	}
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}
	parts := make([]string, 0, len(history))
	for _, turn := range history {
		speaker := "Assistant"
		if turn.Role == domain.RoleUser {
			speaker = "User"
		}
		parts = append(parts, fmt.Sprintf("%s: %s...", speaker, truncate(turn.Text, excerpt)))
	}
	return strings.Join(parts, " | ")
}

// truncate returns at most n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if n < 0 || len(r) <= n {
		return s
	}
	return string(r[:n])
}
