// Package selfmetrics samples the CPU and memory usage of the host the
// collector runs on and feeds it through the same ingestqueue/flusher path
// real client traffic uses (SPEC_FULL.md §D.3), adapted from the
// teacher's gopsutil-based LocalCollector.
package selfmetrics

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/moniflow/backend/internal/ingestqueue"
	"github.com/moniflow/backend/internal/models"
)

// Producer periodically samples host resource usage and enqueues it as
// a "moniflow_self" measurement.
type Producer struct {
	queue    *ingestqueue.Queue[models.MetricSample]
	interval time.Duration
	hostTag  string
}

// New builds a self-metrics producer sampling every interval.
func New(queue *ingestqueue.Queue[models.MetricSample], interval time.Duration, hostTag string) *Producer {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Producer{queue: queue, interval: interval, hostTag: hostTag}
}

// Run samples and enqueues on Producer's interval until ctx is canceled.
func (p *Producer) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sample, err := p.collect()
			if err != nil {
				log.Printf("[SelfMetrics] collection failed: %v", err)
				continue
			}
			if err := p.queue.Put(sample); err != nil {
				log.Printf("[SelfMetrics] dropped sample: %v", err)
			}
		}
	}
}

func (p *Producer) collect() (models.MetricSample, error) {
	cpuPercents, err := cpu.Percent(0, false)
	if err != nil || len(cpuPercents) == 0 {
		return models.MetricSample{}, err
	}
	cpuUsage := math.Round(cpuPercents[0]*10) / 10

	memStat, err := mem.VirtualMemory()
	if err != nil {
		return models.MetricSample{}, err
	}
	memUsage := math.Round(memStat.UsedPercent*10) / 10

	return models.MetricSample{
		Measurement: "moniflow_self",
		Tags:        map[string]string{"host": p.hostTag},
		Fields: map[string]float64{
			"cpu_percent":    cpuUsage,
			"memory_percent": memUsage,
		},
	}, nil
}
