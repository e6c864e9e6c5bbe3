package routestore

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/routepilot/routepilot/internal/directions"
	"github.com/routepilot/routepilot/internal/routes"
	"github.com/routepilot/routepilot/pkg/logger"
	"github.com/routepilot/routepilot/pkg/redis"
	"github.com/routepilot/routepilot/pkg/resilience"
)

const (
	// DefaultHistoryKey is the Redis key holding the saved-route history.
	DefaultHistoryKey = "routepilot:saved_routes"

	// MaxHistory bounds the history; saving past the cap evicts the oldest
	// entries in the same write.
	MaxHistory = 50

	// coordTolerance is the per-axis degree tolerance for the duplicate
	// check, roughly a city block.
	coordTolerance = 0.001

	// maxTxRetries bounds optimistic-lock retries when concurrent writers
	// touch the history key. Attempts are spaced with jittered backoff so
	// contending writers stop colliding on every round.
	maxTxRetries = 10
)

// ErrConflict is returned when a history write keeps losing the optimistic
// concurrency race.
var ErrConflict = errors.New("route history update conflicted")

// Store persists route history in Redis as a single JSON array, most recent
// first. All mutations go through a WATCH/MULTI transaction so concurrent
// saves and deletes never clobber each other's writes.
type Store struct {
	rdb *redis.Client
	key string
}

// New creates a Store on the given Redis client. An empty key selects
// DefaultHistoryKey.
func New(rdb *redis.Client, key string) *Store {
	if key == "" {
		key = DefaultHistoryKey
	}
	return &Store{rdb: rdb, key: key}
}

// Save snapshots the route at the head of the history and truncates to
// MaxHistory. An empty name gets an automatic one derived from the route's
// endpoints.
func (s *Store) Save(ctx context.Context, route *routes.OptimizedRoute, req *directions.RouteRequest, name string) (*SavedRoute, error) {
	if name == "" {
		name = autoName(route)
	}

	saved := &SavedRoute{
		ID:      uuid.New().String(),
		Name:    name,
		SavedAt: time.Now().UTC(),
		Route:   *route,
	}
	if req != nil {
		saved.Request = *req
	}

	_, err := s.mutate(ctx, func(list []SavedRoute) ([]SavedRoute, bool) {
		next := make([]SavedRoute, 0, len(list)+1)
		next = append(next, *saved)
		next = append(next, list...)
		if len(next) > MaxHistory {
			next = next[:MaxHistory]
		}
		return next, true
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "route saved",
		zap.String("route_id", saved.ID),
		zap.String("name", saved.Name),
	)
	return saved, nil
}

// List returns the saved routes, most recent first. Storage failures or a
// corrupted entry yield an empty history rather than an error so the caller
// can always render something.
func (s *Store) List(ctx context.Context) []SavedRoute {
	raw, err := s.rdb.GetString(ctx, s.key)
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			logger.WarnContext(ctx, "route history unavailable", zap.Error(err))
		}
		return []SavedRoute{}
	}

	var list []SavedRoute
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		logger.WarnContext(ctx, "route history corrupted, treating as empty", zap.Error(err))
		return []SavedRoute{}
	}
	return list
}

// Delete removes the route with the given id. Returns false when no such
// route exists or the history is unavailable.
func (s *Store) Delete(ctx context.Context, id string) bool {
	applied, err := s.mutate(ctx, func(list []SavedRoute) ([]SavedRoute, bool) {
		for i := range list {
			if list[i].ID == id {
				return append(list[:i], list[i+1:]...), true
			}
		}
		return nil, false
	})
	if err != nil {
		logger.WarnContext(ctx, "route delete failed", zap.String("route_id", id), zap.Error(err))
		return false
	}
	return applied
}

// Update replaces the stored fields of the route with the given id, keeping
// its position in the history. Nil fields are left unchanged. Returns false
// when no such route exists.
func (s *Store) Update(ctx context.Context, id string, name *string, favorite *bool) bool {
	applied, err := s.mutate(ctx, func(list []SavedRoute) ([]SavedRoute, bool) {
		for i := range list {
			if list[i].ID != id {
				continue
			}
			if name != nil {
				list[i].Name = *name
			}
			if favorite != nil {
				list[i].Favorite = *favorite
			}
			return list, true
		}
		return nil, false
	})
	if err != nil {
		logger.WarnContext(ctx, "route update failed", zap.String("route_id", id), zap.Error(err))
		return false
	}
	return applied
}

// FindSimilar returns the most recent saved route whose stop sequence
// matches the given route within coordTolerance on both axes, or nil when
// none matches.
func (s *Store) FindSimilar(ctx context.Context, route *routes.OptimizedRoute) *SavedRoute {
	for _, saved := range s.List(ctx) {
		if similarStops(saved.Route.Stops, route.Stops) {
			match := saved
			return &match
		}
	}
	return nil
}

func similarStops(a, b []routes.RouteStop) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i].Latitude-b[i].Latitude) > coordTolerance {
			return false
		}
		if math.Abs(a[i].Longitude-b[i].Longitude) > coordTolerance {
			return false
		}
	}
	return true
}

// mutate loads the history, applies the mutation and writes the result back
// under WATCH, retrying with jittered backoff when a concurrent writer
// invalidates the read. The mutation returns false to signal a no-op, which
// skips the write.
func (s *Store) mutate(ctx context.Context, apply func([]SavedRoute) ([]SavedRoute, bool)) (bool, error) {
	var applied bool

	txf := func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, s.key).Result()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}

		var list []SavedRoute
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &list); err != nil {
				logger.WarnContext(ctx, "route history corrupted, resetting", zap.Error(err))
				list = nil
			}
		}

		next, ok := apply(list)
		applied = ok
		if !ok {
			return nil
		}

		data, err := json.Marshal(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		})
		return err
	}

	retryCfg := resilience.RetryConfig{
		MaxAttempts:       maxTxRetries,
		InitialBackoff:    5 * time.Millisecond,
		MaxBackoff:        100 * time.Millisecond,
		BackoffMultiplier: 2.0,
		EnableJitter:      true,
		// Only a lost WATCH race is worth retrying; real storage errors
		// surface immediately.
		RetryableChecker: func(err error) bool {
			return errors.Is(err, goredis.TxFailedErr)
		},
	}

	_, err := resilience.RetryWithName(ctx, retryCfg, func(ctx context.Context) (interface{}, error) {
		return nil, s.rdb.Watch(ctx, txf, s.key)
	}, "route-history-write")
	if err != nil {
		if errors.Is(err, goredis.TxFailedErr) {
			return false, ErrConflict
		}
		return false, err
	}

	return applied, nil
}
