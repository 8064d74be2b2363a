package intent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/crewgen/internal/domain"
)

func userTurns(texts ...string) []domain.Turn {
	turns := make([]domain.Turn, 0, len(texts))
	for _, text := range texts {
		turns = append(turns, domain.Turn{Role: domain.RoleUser, Text: text})
	}
	return turns
}

func TestClassifyMission(t *testing.T) {
	tests := []struct {
		name     string
		corpus   string
		expected string
	}{
		{"marketing beats sales", "we need sales and marketing help", "Marketing Campaign"},
		{"sales only", "boost our sales", "Sales Growth Initiative"},
		{"website", "our website is slow", "Website Optimization"},
		{"store", "i run a store", "E-commerce Growth"},
		{"customer", "customer churn is high", "Customer Experience Enhancement"},
		{"no keyword", "hello there", DefaultMissionName},
		{"empty", "", DefaultMissionName},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyMission(tc.corpus))
		})
	}
}

func TestExtract_Fields(t *testing.T) {
	history := userTurns("I run an Online Store.", "I want to increase SALES!")
	history = append(history, domain.Turn{Role: domain.RoleAssistant, Text: "Tell me more about marketing"})

	req := Extract(history)

	assert.Equal(t, "Sales Growth Initiative", req.Name)
	assert.Equal(t, "I run an Online Store. I want to increase SALES!", req.Objective)
	assert.Equal(t, DescriptionPrefix+"i run an online store. i want to increase sales!", req.Description)
}

func TestExtract_Deterministic(t *testing.T) {
	history := userTurns("We sell handmade candles", "Need more marketing reach on social")

	assert.Equal(t, Extract(history), Extract(history))
}

func TestExtract_DescriptionExcerptBounded(t *testing.T) {
	long := strings.Repeat("é", 500)
	req := ExtractTexts([]string{long})

	excerpt := strings.TrimPrefix(req.Description, DescriptionPrefix)
	assert.Equal(t, 300, len([]rune(excerpt)))
	assert.Equal(t, long, req.Objective)
}

func TestExtract_IgnoresAssistantTurns(t *testing.T) {
	history := []domain.Turn{
		{Role: domain.RoleAssistant, Text: "marketing"},
		{Role: domain.RoleUser, Text: "hello"},
	}

	req := Extract(history)
	assert.Equal(t, DefaultMissionName, req.Name)
	assert.Equal(t, "hello", req.Objective)
}

func TestIsReady(t *testing.T) {
	tests := []struct {
		name     string
		history  []domain.Turn
		expected bool
	}{
		{"no history", nil, false},
		{"single entry with everything", userTurns("increase sales for my online store"), false},
		{"goal and context in separate entries", userTurns("I run an online store", "I want to increase sales and improve customer retention"), true},
		{"goal and context reversed", userTurns("please help us grow", "we are a small company"), true},
		{"goal only", userTurns("improve things", "boost everything"), false},
		{"context only", userTurns("we have a company", "and a product"), false},
		{"neither", userTurns("hello", "how are you"), false},
		{"case insensitive", userTurns("INCREASE", "REVENUE"), true},
		{
			"assistant keywords do not count",
			[]domain.Turn{
				{Role: domain.RoleUser, Text: "hi"},
				{Role: domain.RoleAssistant, Text: "increase revenue online"},
				{Role: domain.RoleUser, Text: "ok"},
			},
			false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsReady(tc.history))
		})
	}
}
