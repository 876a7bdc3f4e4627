// Package tstamp parses and formats the ISO-8601 timestamps carried on
// metric samples, log events, and hot-cache queries, per spec.md §4.B.
//
// Parsing is deliberately strict: the wire format mirrors Python's
// datetime.isoformat() output (what metrics_collector/database.py
// writes when a client omits a timestamp), which always carries an
// explicit UTC offset. Bare dates, naive datetimes without a zone, and
// non-string values are rejected rather than guessed at.
package tstamp

import (
	"fmt"
	"time"

	"github.com/moniflow/backend/internal/models"
)

// acceptedLayouts are tried in order; all require an explicit offset.
var acceptedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
}

// Parse converts an ISO-8601 timestamp string into Unix seconds. An
// empty string, a timestamp missing a timezone offset, or anything
// that otherwise fails to parse returns models.ErrInvalidTimestamp.
func Parse(ts string) (int64, error) {
	if ts == "" {
		return 0, fmt.Errorf("%w: timestamp is empty", models.ErrInvalidTimestamp)
	}
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("%w: %q is not a valid ISO-8601 timestamp with timezone", models.ErrInvalidTimestamp, ts)
}

// Now returns the current instant formatted as ISO-8601 with a "Z"
// suffix, matching datetime.now(timezone.utc).isoformat().
func Now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.999999Z")
}

// NowUnix returns the current instant as Unix seconds.
func NowUnix() int64 {
	return time.Now().Unix()
}
