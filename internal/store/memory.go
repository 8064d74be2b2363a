package store

import (
	"context"
	"sync"

	"github.com/mrz1836/crewgen/internal/domain"
)

// Compile-time check that Memory implements Store.
var _ Store = (*Memory)(nil)

// Memory keeps teams in process memory as encoded records.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

// SaveTeam implements Store.
func (m *Memory) SaveTeam(ctx context.Context, team *domain.TeamConfiguration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeTeam(team)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.records[team.ID] = data
	m.mu.Unlock()
	return nil
}

// GetTeam implements Store.
func (m *Memory) GetTeam(ctx context.Context, id string) (*domain.TeamConfiguration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	data, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	return decodeTeam(id, data)
}

// Close implements Store.
func (m *Memory) Close() error {
	return nil
}
