// Package alertstate is the Redis-backed TTL marker store the
// evaluator uses to track whether a rule is currently triggered or has
// already sent its recovery notification, per spec.md §4.D.
package alertstate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moniflow/backend/internal/keyschema"
	"github.com/moniflow/backend/internal/models"
)

const minTTL = 60 * time.Second

// Store is the Redis-backed alert/recovery state store.
type Store struct {
	client *redis.Client
}

// New wraps an existing Redis client.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// floor ensures a TTL is never shorter than minTTL, per spec.md §4.D.
func floor(d time.Duration) time.Duration {
	if d < minTTL {
		return minTTL
	}
	return d
}

// SetAlert marks rule ruleID as currently triggered for durationSeconds,
// floored at 60s.
func (s *Store) SetAlert(ctx context.Context, ruleID string, durationSeconds int) error {
	key := keyschema.AlertStateKey(ruleID)
	ttl := floor(time.Duration(durationSeconds) * time.Second)
	if err := s.client.SetEx(ctx, key, "triggered", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return nil
}

// HasAlert reports whether ruleID currently has an active alert marker.
func (s *Store) HasAlert(ctx context.Context, ruleID string) (bool, error) {
	key := keyschema.AlertStateKey(ruleID)
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return n > 0, nil
}

// SetRecovery marks ruleID's recovery alert as already sent for
// recoverySeconds, floored at 60s.
func (s *Store) SetRecovery(ctx context.Context, ruleID string, recoverySeconds int) error {
	key := keyschema.RecoveryStateKey(ruleID)
	ttl := floor(time.Duration(recoverySeconds) * time.Second)
	if err := s.client.SetEx(ctx, key, "recovered", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return nil
}

// HasRecovery reports whether ruleID's recovery marker is still active.
func (s *Store) HasRecovery(ctx context.Context, ruleID string) (bool, error) {
	key := keyschema.RecoveryStateKey(ruleID)
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return n > 0, nil
}
