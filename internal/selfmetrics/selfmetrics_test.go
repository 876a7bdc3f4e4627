package selfmetrics

import (
	"testing"
	"time"

	"github.com/moniflow/backend/internal/ingestqueue"
	"github.com/moniflow/backend/internal/models"
)

func TestProducer_CollectShape(t *testing.T) {
	q := ingestqueue.New[models.MetricSample](10)
	p := New(q, time.Second, "test-host")

	sample, err := p.collect()
	if err != nil {
		t.Fatalf("collect returned error: %v", err)
	}
	if sample.Measurement != "moniflow_self" {
		t.Fatalf("expected measurement moniflow_self, got %q", sample.Measurement)
	}
	if sample.Tags["host"] != "test-host" {
		t.Fatalf("expected host tag to be set")
	}
	if _, ok := sample.Fields["cpu_percent"]; !ok {
		t.Fatalf("expected cpu_percent field")
	}
	if _, ok := sample.Fields["memory_percent"]; !ok {
		t.Fatalf("expected memory_percent field")
	}
}

func TestNew_DefaultsInterval(t *testing.T) {
	q := ingestqueue.New[models.MetricSample](10)
	p := New(q, 0, "host")
	if p.interval != 30*time.Second {
		t.Fatalf("expected default interval of 30s, got %v", p.interval)
	}
}
