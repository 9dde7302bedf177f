package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store is the caching contract the data provider reads through. Values are
// serialized JSON strings; the provider owns encoding on both sides.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Default TTLs per payload class. Roster data barely moves, game logs do.
const (
	TTLPlayerInfo  = 24 * time.Hour
	TTLSeasonStats = 24 * time.Hour
	TTLGameLog     = 3 * time.Hour
	TTLTeamStats   = 6 * time.Hour
)
