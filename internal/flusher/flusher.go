// Package flusher drains ingestqueue.Queue buffers into the hot cache
// and time-series store in batches, per spec.md §4.G. It mirrors
// metrics_collector/database.py's process_logs/process_metrics worker
// loops: pull up to batchSize items with a 1s per-item timeout, flush
// whenever a batch accumulates, and drop a batch that fails to write
// rather than retrying it.
package flusher

import (
	"context"
	"log"
	"time"

	"github.com/moniflow/backend/internal/ingestqueue"
	"github.com/moniflow/backend/internal/models"
	"github.com/moniflow/backend/internal/tsdb"
)

// CacheWriter is the subset of hotcache.Store the flusher needs;
// narrowed to an interface so tests can substitute a fake.
type CacheWriter interface {
	Put(ctx context.Context, sample models.MetricSample) error
}

const perItemTimeout = 1 * time.Second

// Config controls batch sizing, mirroring LOG_BATCH_SIZE/METRIC_BATCH_SIZE
// and LOG_FLUSH_INTERVAL/METRIC_FLUSH_INTERVAL from spec.md §6.
// FlushInterval is defaulted but not read by Run: a batch is flushed
// when it is full, when a 1s wait for the next item comes up empty, or
// when ctx is canceled.
type Config struct {
	BatchSize     int
	FlushInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 5 * time.Second
	}
	return c
}

// MetricFlusher drains a metric queue into the hot cache and the
// time-series store.
type MetricFlusher struct {
	queue  *ingestqueue.Queue[models.MetricSample]
	cache  CacheWriter
	writer tsdb.Writer
	cfg    Config
}

// NewMetricFlusher builds a metric flusher.
func NewMetricFlusher(queue *ingestqueue.Queue[models.MetricSample], cache CacheWriter, writer tsdb.Writer, cfg Config) *MetricFlusher {
	return &MetricFlusher{queue: queue, cache: cache, writer: writer, cfg: cfg.withDefaults()}
}

// Run drains the queue until ctx is canceled, flushing the partial
// batch it holds synchronously before returning. Items still waiting in
// the queue at that point are not drained.
func (f *MetricFlusher) Run(ctx context.Context) {
	for {
		var batch []models.MetricSample
		for len(batch) < f.cfg.BatchSize {
			item, ok := f.queue.GetContext(ctx, perItemTimeout)
			if !ok {
				break
			}
			batch = append(batch, item)
		}

		f.flush(batch)

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (f *MetricFlusher) flush(batch []models.MetricSample) {
	if len(batch) == 0 {
		return
	}
	for _, sample := range batch {
		if err := f.cache.Put(context.Background(), sample); err != nil {
			log.Printf("[Flusher] hot cache write failed, dropping sample: %v", err)
		}
	}
	if err := f.writer.WriteMetrics(context.Background(), batch); err != nil {
		log.Printf("[Flusher] time-series write failed, dropping batch of %d: %v", len(batch), err)
	}
}

// LogFlusher drains a log queue into the time-series store.
type LogFlusher struct {
	queue  *ingestqueue.Queue[models.LogEvent]
	writer tsdb.Writer
	cfg    Config
}

// NewLogFlusher builds a log flusher.
func NewLogFlusher(queue *ingestqueue.Queue[models.LogEvent], writer tsdb.Writer, cfg Config) *LogFlusher {
	return &LogFlusher{queue: queue, writer: writer, cfg: cfg.withDefaults()}
}

// Run drains the log queue until ctx is canceled.
func (f *LogFlusher) Run(ctx context.Context) {
	for {
		var batch []models.LogEvent
		for len(batch) < f.cfg.BatchSize {
			item, ok := f.queue.GetContext(ctx, perItemTimeout)
			if !ok {
				break
			}
			batch = append(batch, item)
		}

		f.flush(batch)

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (f *LogFlusher) flush(batch []models.LogEvent) {
	if len(batch) == 0 {
		return
	}
	if err := f.writer.WriteLogs(context.Background(), batch); err != nil {
		log.Printf("[Flusher] log write failed, dropping batch of %d: %v", len(batch), err)
	}
}
