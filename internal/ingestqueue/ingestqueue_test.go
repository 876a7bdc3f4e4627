package ingestqueue

import (
	"errors"
	"testing"
	"time"

	"github.com/moniflow/backend/internal/models"
)

func TestPut_RejectsWhenFull(t *testing.T) {
	q := New[int](1)
	if err := q.Put(1); err != nil {
		t.Fatalf("unexpected error on first put: %v", err)
	}
	err := q.Put(2)
	if !errors.Is(err, models.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestGet_TimesOut(t *testing.T) {
	q := New[int](1)
	_, ok := q.Get(10 * time.Millisecond)
	if ok {
		t.Fatalf("expected timeout on empty queue")
	}
}

func TestGet_ReturnsItem(t *testing.T) {
	q := New[int](1)
	_ = q.Put(42)
	v, ok := q.Get(10 * time.Millisecond)
	if !ok || v != 42 {
		t.Fatalf("expected to get item 42, got %v ok=%v", v, ok)
	}
}
