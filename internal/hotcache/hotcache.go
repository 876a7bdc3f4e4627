// Package hotcache is the Redis-backed short-retention time index for
// metric samples, per spec.md §4.C. Each metric/tags/field combination
// is stored as a sorted set keyed by keyschema.MetricKey, scored by
// the sample's Unix-second timestamp.
package hotcache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/moniflow/backend/internal/keyschema"
	"github.com/moniflow/backend/internal/models"
	"github.com/moniflow/backend/internal/tstamp"
)

// Store is the Redis-backed hot cache client.
type Store struct {
	client *redis.Client
}

// New wraps an existing Redis client. The caller owns the client's
// lifecycle (Close).
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Put validates a metric sample and writes each field's value into that
// field's series sorted set. Fields are stored one at a time, one ZADD
// per field, so a sample with N fields produces N series entries.
func (s *Store) Put(ctx context.Context, sample models.MetricSample) error {
	if err := sample.Validate(); err != nil {
		return err
	}

	ts := sample.Timestamp
	if ts == "" {
		ts = tstamp.Now()
	}
	seconds, err := tstamp.Parse(ts)
	if err != nil {
		return err
	}

	for field, value := range sample.Fields {
		key := keyschema.MetricKey(sample.Measurement, sample.Tags, field)
		member := strconv.FormatFloat(value, 'f', -1, 64)
		if err := s.client.ZAdd(ctx, key, redis.Z{Score: float64(seconds), Member: member}).Err(); err != nil {
			return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
		}
	}
	return nil
}

// Query fetches the values recorded for one metric/tags/field series
// within the trailing durationSeconds window ending now. An invalid
// query shape (empty metric name, empty field name, non-positive
// duration) returns models.ErrInvalidQuery; a Redis failure degrades to
// an empty result rather than propagating, matching RedisMetrics in the
// original service.
func (s *Store) Query(ctx context.Context, metricName string, tags map[string]string, fieldName string, durationSeconds int64) ([]float64, error) {
	if metricName == "" || fieldName == "" {
		return nil, fmt.Errorf("%w: metric_name and field_name are required", models.ErrInvalidQuery)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: tags must be a non-empty mapping", models.ErrInvalidQuery)
	}
	if durationSeconds <= 0 {
		return nil, fmt.Errorf("%w: duration_seconds must be positive", models.ErrInvalidQuery)
	}

	key := keyschema.MetricKey(metricName, tags, fieldName)
	now := tstamp.NowUnix()
	min := now - durationSeconds

	members, err := s.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: strconv.FormatInt(min, 10),
		Max: strconv.FormatInt(now, 10),
	}).Result()
	if err != nil {
		return []float64{}, nil
	}

	values := make([]float64, 0, len(members))
	for _, m := range members {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values, nil
}
