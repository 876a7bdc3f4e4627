package rulestore

import (
	"context"
	"errors"
	"testing"

	"github.com/moniflow/backend/internal/models"
)

// Get and Delete must treat an unparsable rule id as "not found"
// rather than surfacing a driver error, matching the original
// service's errors.InvalidId handling, before any network call is made.
func TestGet_UnparsableIDIsNotFound(t *testing.T) {
	s := &Store{}
	_, err := s.Get(context.Background(), "not-an-object-id")
	if !errors.Is(err, models.ErrRuleNotFound) {
		t.Fatalf("expected ErrRuleNotFound, got %v", err)
	}
}

func TestDelete_UnparsableIDIsNoop(t *testing.T) {
	s := &Store{}
	if err := s.Delete(context.Background(), "not-an-object-id"); err != nil {
		t.Fatalf("expected no-op for unparsable id, got %v", err)
	}
}
