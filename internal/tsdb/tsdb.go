// Package tsdb is the BatchFlusher's time-series store client. It
// encodes batches of metric samples and log events into line protocol
// and ships them over HTTP, the wire format the original service wrote
// via the InfluxDB client SDK (database.py's write_api.write calls).
// The pack carries only the line-protocol encoder, not that SDK, so
// this package talks the same wire format over a plain HTTP POST
// against an InfluxDB-compatible write endpoint.
package tsdb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/influxdata/line-protocol/v2/lineprotocol"

	"github.com/moniflow/backend/internal/models"
	"github.com/moniflow/backend/internal/tstamp"
)

// Writer ships encoded line-protocol batches to a time-series store.
type Writer interface {
	WriteMetrics(ctx context.Context, samples []models.MetricSample) error
	WriteLogs(ctx context.Context, logs []models.LogEvent) error
}

// Reader runs a backend query string against the time-series store and
// returns the raw response body. The query language and response shape
// are the store's own; per spec.md §4.I only the response envelope
// {query, results} that wraps this is a public contract.
type Reader interface {
	Query(ctx context.Context, fluxQuery string) ([]byte, error)
}

// HTTPWriter posts line-protocol batches to an InfluxDB-compatible
// /api/v2/write endpoint.
type HTTPWriter struct {
	URL    string
	Org    string
	Bucket string
	Token  string
	client *http.Client
}

// NewHTTPWriter builds a writer against url/org/bucket, authenticating
// with token.
func NewHTTPWriter(url, org, bucket, token string) *HTTPWriter {
	return &HTTPWriter{
		URL:    url,
		Org:    org,
		Bucket: bucket,
		Token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// WriteMetrics encodes samples as line-protocol "measurement" points
// and ships them in one request.
func (w *HTTPWriter) WriteMetrics(ctx context.Context, samples []models.MetricSample) error {
	var enc lineprotocol.Encoder
	enc.SetPrecision(lineprotocol.Nanosecond)

	for _, s := range samples {
		ts, err := sampleTime(s.Timestamp)
		if err != nil {
			return err
		}
		enc.StartLine(s.Measurement)
		for _, k := range sortedKeys(s.Tags) {
			enc.AddTag(k, s.Tags[k])
		}
		for _, k := range sortedFieldKeys(s.Fields) {
			enc.AddField(k, lineprotocol.MustNewValue(s.Fields[k]))
		}
		enc.EndLine(ts)
		if err := enc.Err(); err != nil {
			return fmt.Errorf("%w: encoding metric line: %v", models.ErrStorageUnavailable, err)
		}
	}
	return w.post(ctx, enc.Bytes())
}

// WriteLogs encodes logs as "logs" measurement points with level/tags
// as tags and the message as a field, matching process_logs's Point
// construction.
func (w *HTTPWriter) WriteLogs(ctx context.Context, logs []models.LogEvent) error {
	var enc lineprotocol.Encoder
	enc.SetPrecision(lineprotocol.Nanosecond)

	for _, l := range logs {
		ts, err := sampleTime(l.Timestamp)
		if err != nil {
			return err
		}
		enc.StartLine("logs")
		enc.AddTag("level", string(l.Level))
		for _, k := range sortedKeys(l.Tags) {
			enc.AddTag(k, l.Tags[k])
		}
		enc.AddField("message", lineprotocol.MustNewValue(l.Message))
		enc.EndLine(ts)
		if err := enc.Err(); err != nil {
			return fmt.Errorf("%w: encoding log line: %v", models.ErrStorageUnavailable, err)
		}
	}
	return w.post(ctx, enc.Bytes())
}

func (w *HTTPWriter) post(ctx context.Context, body []byte) error {
	if len(body) == 0 {
		return nil
	}
	url := fmt.Sprintf("%s/api/v2/write?org=%s&bucket=%s&precision=ns", w.URL, w.Org, w.Bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Token %s", w.Token))
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: write rejected with status %d", models.ErrStorageUnavailable, resp.StatusCode)
	}
	return nil
}

// Query runs fluxQuery against the store's query endpoint and returns
// the raw response body, matching routers/metrics.go's pass-through of
// the InfluxDB client's raw query result.
func (w *HTTPWriter) Query(ctx context.Context, fluxQuery string) ([]byte, error) {
	url := fmt.Sprintf("%s/api/v2/query?org=%s", w.URL, w.Org)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader([]byte(fluxQuery)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Token %s", w.Token))
	req.Header.Set("Content-Type", "application/vnd.flux")
	req.Header.Set("Accept", "application/csv")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: query rejected with status %d", models.ErrStorageUnavailable, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func sampleTime(ts string) (time.Time, error) {
	if ts == "" {
		return time.Now().UTC(), nil
	}
	seconds, err := tstamp.Parse(ts)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(seconds, 0).UTC(), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFieldKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
