// Package store persists generated team configurations.
//
// Three drivers are provided: memory (process lifetime), sqlite (a local file)
// and redis (shared, optionally expiring). All of them store the team as an
// opaque JSON record keyed by team id; a second save with the same id
// replaces the first.
//
// IMPORTANT: This package may import internal/config, internal/constants,
// internal/domain and internal/errors. It MUST NOT import internal/conversation,
// internal/api, or internal/cli.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/crewgen/internal/config"
	"github.com/mrz1836/crewgen/internal/constants"
	"github.com/mrz1836/crewgen/internal/domain"
	crewerrors "github.com/mrz1836/crewgen/internal/errors"
)

// Store saves and loads team configurations.
type Store interface {
	// SaveTeam stores team under team.ID. The team must already have an id.
	SaveTeam(ctx context.Context, team *domain.TeamConfiguration) error

	// GetTeam loads the team with id.
	// Returns a wrapped ErrTeamNotFound when no record exists.
	GetTeam(ctx context.Context, id string) (*domain.TeamConfiguration, error)

	// Close releases the store's resources.
	Close() error
}

// Open creates the store selected by cfg.Driver.
func Open(ctx context.Context, cfg *config.StoreConfig, logger zerolog.Logger) (Store, error) {
	if cfg == nil {
		return nil, crewerrors.ErrConfigNil
	}

	logger = logger.With().Str("component", "store").Str("driver", cfg.Driver).Logger()

	switch strings.ToLower(cfg.Driver) {
	case constants.StoreDriverMemory:
		logger.Debug().Msg("using in-memory team store")
		return NewMemory(), nil
	case constants.StoreDriverSQLite, "":
		path := config.ExpandHome(cfg.SQLitePath)
		logger.Debug().Str("path", path).Msg("opening sqlite team store")
		return OpenSQLite(ctx, path)
	case constants.StoreDriverRedis:
		logger.Debug().Msg("connecting to redis team store")
		return OpenRedis(ctx, RedisOptions{
			URL:         cfg.RedisURL,
			MaxActive:   cfg.RedisMaxActive,
			IdleTimeout: cfg.RedisIdleTimeout,
			TTL:         cfg.RecordTTL,
		})
	default:
		return nil, fmt.Errorf("%w: %q", crewerrors.ErrUnsupportedStoreDriver, cfg.Driver)
	}
}

// encodeTeam validates the id and marshals team.
func encodeTeam(team *domain.TeamConfiguration) ([]byte, error) {
	if team == nil || strings.TrimSpace(team.ID) == "" {
		return nil, fmt.Errorf("team id %w", crewerrors.ErrEmptyValue)
	}
	data, err := json.Marshal(team)
	if err != nil {
		return nil, fmt.Errorf("failed to encode team %s: %w", team.ID, err)
	}
	return data, nil
}

// decodeTeam unmarshals a stored record.
func decodeTeam(id string, data []byte) (*domain.TeamConfiguration, error) {
	var team domain.TeamConfiguration
	if err := json.Unmarshal(data, &team); err != nil {
		return nil, fmt.Errorf("failed to decode team %s: %w", id, err)
	}
	return &team, nil
}

// notFound returns the wrapped not-found error for id.
func notFound(id string) error {
	return crewerrors.Wrapf(crewerrors.ErrTeamNotFound, "team %s", id)
}
