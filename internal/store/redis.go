package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"
	cache "github.com/mrz1836/go-cache"

	"github.com/mrz1836/crewgen/internal/constants"
	"github.com/mrz1836/crewgen/internal/domain"
	crewerrors "github.com/mrz1836/crewgen/internal/errors"
)

// Compile-time check that Redis implements Store.
var _ Store = (*Redis)(nil)

// RedisOptions configures a Redis store.
type RedisOptions struct {
	// URL is the connection URL, e.g. redis://localhost:6379.
	URL string

	// MaxActive is the pool size. Zero uses the default.
	MaxActive int

	// IdleTimeout closes idle pooled connections. Zero uses the default.
	IdleTimeout time.Duration

	// TTL expires records after this duration. Zero keeps them.
	TTL time.Duration

	// KeyPrefix namespaces team keys. Empty uses the default prefix.
	KeyPrefix string
}

// Redis stores teams as JSON strings under prefixed keys.
type Redis struct {
	client *cache.Client
	prefix string
	ttl    time.Duration
}

// OpenRedis connects to the server at opts.URL.
func OpenRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, fmt.Errorf("%w: redis_url %w", crewerrors.ErrConfigInvalidStore, crewerrors.ErrEmptyValue)
	}
	if opts.MaxActive <= 0 {
		opts.MaxActive = constants.DefaultRedisMaxActive
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = constants.DefaultRedisIdleTimeout
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = constants.TeamKeyPrefix
	}

	client, err := cache.Connect(ctx, opts.URL, opts.MaxActive, opts.MaxActive, 0, opts.IdleTimeout, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis store: %w", err)
	}

	return &Redis{
		client: client,
		prefix: opts.KeyPrefix,
		ttl:    opts.TTL,
	}, nil
}

func (r *Redis) key(id string) string {
	return r.prefix + id
}

// SaveTeam implements Store. An existing record with the same id is replaced.
func (r *Redis) SaveTeam(ctx context.Context, team *domain.TeamConfiguration) error {
	data, err := encodeTeam(team)
	if err != nil {
		return err
	}
	if r.ttl > 0 {
		err = cache.SetExp(ctx, r.client, r.key(team.ID), string(data), r.ttl)
	} else {
		err = cache.Set(ctx, r.client, r.key(team.ID), string(data))
	}
	if err != nil {
		return fmt.Errorf("failed to save team %s: %w", team.ID, err)
	}
	return nil
}

// GetTeam implements Store.
func (r *Redis) GetTeam(ctx context.Context, id string) (*domain.TeamConfiguration, error) {
	key := r.key(id)
	exists, err := cache.Exists(ctx, r.client, key)
	if err != nil {
		return nil, fmt.Errorf("failed to look up team %s: %w", id, err)
	}
	if !exists {
		return nil, notFound(id)
	}

	data, err := cache.Get(ctx, r.client, key)
	if errors.Is(err, redis.ErrNil) {
		// Expired between the two calls.
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load team %s: %w", id, err)
	}
	return decodeTeam(id, []byte(data))
}

// Close implements Store.
func (r *Redis) Close() error {
	r.client.Close()
	return nil
}
