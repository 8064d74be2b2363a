// Package intent turns free-form user utterances into a structured
// generation request and decides when enough has been said to generate.
//
// Everything here is a pure function of the conversation history.
package intent

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/mrz1836/crewgen/internal/constants"
	"github.com/mrz1836/crewgen/internal/domain"
)

// DefaultMissionName is used when no mission keyword matches.
const DefaultMissionName = "Business Growth Initiative"

// DescriptionPrefix precedes the corpus excerpt in an extracted description.
const DescriptionPrefix = "Extracted from conversation: "

// missionRule maps a keyword to a canonical mission name.
type missionRule struct {
	keyword string
	name    string
}

// missionRules is ordered by priority; the first matching keyword wins.
//
//nolint:gochecknoglobals // Static lookup table
var missionRules = []missionRule{
	{"marketing", "Marketing Campaign"},
	{"sales", "Sales Growth Initiative"},
	{"website", "Website Optimization"},
	{"store", "E-commerce Growth"},
	{"customer", "Customer Experience Enhancement"},
	{"product", "Product Launch"},
	{"content", "Content Strategy"},
	{"social", "Social Media Growth"},
}

// Fold case-folds s for keyword matching.
func Fold(s string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Fold().String(s)
}

// Corpus joins the user utterances in history with single spaces, unfolded.
func Corpus(history []domain.Turn) string {
	return strings.Join(domain.UserTexts(history), " ")
}

// Extract builds a generation request from the user utterances in history.
func Extract(history []domain.Turn) domain.GenerationRequest {
	return ExtractTexts(domain.UserTexts(history))
}

// ExtractTexts builds a generation request from raw user utterances.
func ExtractTexts(utterances []string) domain.GenerationRequest {
	objective := strings.Join(utterances, " ")
	folded := Fold(objective)

	return domain.GenerationRequest{
		Name:        ClassifyMission(folded),
		Objective:   objective,
		Description: DescriptionPrefix + excerpt(folded, constants.DescriptionExcerptLength),
	}
}

// ClassifyMission returns the canonical mission name for a folded corpus.
func ClassifyMission(folded string) string {
	for _, rule := range missionRules {
		if strings.Contains(folded, rule.keyword) {
			return rule.name
		}
	}
	return DefaultMissionName
}

// excerpt returns the first n characters of s.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
