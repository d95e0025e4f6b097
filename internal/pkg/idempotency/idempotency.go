// Package idempotency tracks the state of keyed operations in redis so that an
// operation runs at most once per key while its state is retained.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrInvalidState = errors.New("invalid state")

type State string

const (
	StateNone       State = "none"        // operation can proceed
	StateInProgress State = "in_progress" // another worker holds the key
	StateCompleted  State = "completed"   // operation already done
	StateError      State = "error"
)

func (s State) String() string {
	return string(s)
}

// Idempotency claims, completes and forgets keys. A key is claimed with a
// short lock and completed with a longer retention.
type Idempotency interface {
	Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error)
	MarkCompleted(ctx context.Context, key string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

const defaultPrefix = "idempotency:"

type StateTracker struct {
	client redis.UniversalClient
	prefix string
}

// New builds a StateTracker. An empty prefix falls back to "idempotency:".
func New(client redis.UniversalClient, prefix string) *StateTracker {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &StateTracker{client: client, prefix: prefix}
}

// Acquire tries to claim key. StateNone means the caller now owns it; any
// other state reports who holds it. Needs redis 7 for SET NX GET.
func (s *StateTracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	prev, err := s.client.SetArgs(ctx, s.prefix+key, StateInProgress.String(), redis.SetArgs{
		Mode: "NX",
		TTL:  lockDuration,
		Get:  true,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return StateNone, nil
	}
	if err != nil {
		return StateError, err
	}

	switch State(prev) {
	case StateInProgress, StateCompleted:
		return State(prev), nil
	default:
		return StateError, ErrInvalidState
	}
}

func (s *StateTracker) MarkCompleted(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, StateCompleted.String(), ttl).Err()
}

// Release forgets key so the operation may be attempted again.
func (s *StateTracker) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
