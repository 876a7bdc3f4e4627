package tstamp

import (
	"errors"
	"testing"

	"github.com/moniflow/backend/internal/models"
)

func TestParse_ValidWithOffset(t *testing.T) {
	sec, err := Parse("2024-01-15T10:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sec != 1705314600 {
		t.Fatalf("got %d, want 1705314600", sec)
	}
}

func TestParse_ValidWithNumericOffset(t *testing.T) {
	if _, err := Parse("2024-01-15T10:30:00+02:00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParse_RejectsBareDate(t *testing.T) {
	_, err := Parse("2024-01-15")
	if !errors.Is(err, models.ErrInvalidTimestamp) {
		t.Fatalf("expected ErrInvalidTimestamp, got %v", err)
	}
}

func TestParse_RejectsMissingZone(t *testing.T) {
	_, err := Parse("2024-01-15T10:30:00")
	if !errors.Is(err, models.ErrInvalidTimestamp) {
		t.Fatalf("expected ErrInvalidTimestamp, got %v", err)
	}
}

func TestParse_RejectsEmpty(t *testing.T) {
	_, err := Parse("")
	if !errors.Is(err, models.ErrInvalidTimestamp) {
		t.Fatalf("expected ErrInvalidTimestamp, got %v", err)
	}
}

func TestNow_HasZSuffix(t *testing.T) {
	got := Now()
	if got == "" || got[len(got)-1] != 'Z' {
		t.Fatalf("expected Z-suffixed timestamp, got %q", got)
	}
}
