// Package logging keeps credentials out of crewgen's logs.
//
// Platform keys, per-request user keys and Redis passwords can reach a log
// line through error messages from the completion service or the store.
// Redact rewrites such text in place, keeping enough of its shape (the
// "Bearer " prefix, the Redis host) that the line stays readable.
package logging

import (
	"regexp"
	"strings"
)

// RedactedValue replaces every secret found in logged text.
const RedactedValue = "[REDACTED]"

// rule pairs a pattern with the template that rewrites its matches.
// Templates keep the non-secret capture groups.
type rule struct {
	name    string
	pattern *regexp.Regexp
	repl    string
}

// rules run in order; narrower key formats come before the generic ones.
//
//nolint:gochecknoglobals // compiled once, read-only
var rules = []rule{
	{
		name:    "anthropic key",
		pattern: regexp.MustCompile(`(sk-ant-)[A-Za-z0-9_-]{16,}`),
		repl:    "${1}" + RedactedValue,
	},
	{
		name:    "openai key",
		pattern: regexp.MustCompile(`(sk-)(?:proj-|svcacct-|admin-)?[A-Za-z0-9_-]{20,}`),
		repl:    "${1}" + RedactedValue,
	},
	{
		name:    "bearer token",
		pattern: regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9_.~+/-]{16,}=*`),
		repl:    "${1}" + RedactedValue,
	},
	{
		name:    "key assignment",
		pattern: regexp.MustCompile(`(?i)((?:crewgen_llm_key|openai_api_key|llm[_-]?key|api[_-]?key)["']?\s*[:=]\s*["']?)[^\s"',]{8,}`),
		repl:    "${1}" + RedactedValue,
	},
	{
		name:    "authorization header",
		pattern: regexp.MustCompile(`(?i)(authorization["']?\s*[:=]\s*["']?)[A-Za-z0-9_.~+/-]{16,}`),
		repl:    "${1}" + RedactedValue,
	},
	{
		name:    "redis password",
		pattern: regexp.MustCompile(`(rediss?://[^:/\s@]*:)[^@\s]+(@)`),
		repl:    "${1}" + RedactedValue + "${2}",
	},
	{
		name:    "password assignment",
		pattern: regexp.MustCompile(`(?i)((?:secret|password|passwd|pwd|credential|token)["']?\s*[:=]\s*["']?)[^\s"',]{8,}`),
		repl:    "${1}" + RedactedValue,
	},
}

// Redact returns s with every recognized secret replaced by RedactedValue.
func Redact(s string) string {
	for _, r := range rules {
		s = r.pattern.ReplaceAllString(s, r.repl)
	}
	return s
}

// HasSecret reports whether s contains text Redact would rewrite.
func HasSecret(s string) bool {
	return matchedRule(s) != ""
}

// matchedRule names the first rule that matches s, or "".
func matchedRule(s string) string {
	for _, r := range rules {
		if r.pattern.MatchString(s) {
			return r.name
		}
	}
	return ""
}

// MaskKey shortens a credential for display, keeping only its last four
// characters. Short or empty values are fully redacted.
func MaskKey(key string) string {
	const visible = 4
	key = strings.TrimSpace(key)
	switch {
	case key == "":
		return ""
	case len(key) <= visible*2:
		return RedactedValue
	default:
		return "..." + key[len(key)-visible:]
	}
}
