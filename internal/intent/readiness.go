package intent

import (
	"strings"

	"github.com/mrz1836/crewgen/internal/constants"
	"github.com/mrz1836/crewgen/internal/domain"
)

//nolint:gochecknoglobals // Static keyword sets
var (
	goalKeywords = []string{
		"increase", "improve", "grow", "boost", "optimize", "enhance",
		"marketing", "sales", "business", "website", "customers",
	}

	contextKeywords = []string{
		"company", "store", "website", "product", "service", "online",
		"conversion", "traffic", "revenue", "customers",
	}
)

// IsReady reports whether history holds enough user input to generate a team.
// It needs at least two user utterances that together mention a goal and a context.
func IsReady(history []domain.Turn) bool {
	texts := domain.UserTexts(history)
	if len(texts) < constants.MinUserTurnsForReadiness {
		return false
	}

	corpus := Fold(strings.Join(texts, " "))
	return containsAny(corpus, goalKeywords) && containsAny(corpus, contextKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
