package notifier

import (
	"testing"
	"time"
)

func TestDeduplicator_SuppressesWithinCooldown(t *testing.T) {
	d := NewDeduplicator(time.Hour)
	fp := Fingerprint("rule1", "triggered")

	if !d.ShouldAlert(fp) {
		t.Fatalf("expected first alert to be allowed")
	}
	if d.ShouldAlert(fp) {
		t.Fatalf("expected second alert within cooldown to be suppressed")
	}
}

func TestDeduplicator_AllowsAfterCooldown(t *testing.T) {
	d := NewDeduplicator(10 * time.Millisecond)
	fp := Fingerprint("rule1", "triggered")

	if !d.ShouldAlert(fp) {
		t.Fatalf("expected first alert to be allowed")
	}
	time.Sleep(20 * time.Millisecond)
	if !d.ShouldAlert(fp) {
		t.Fatalf("expected alert after cooldown to be allowed again")
	}
}

func TestFingerprint_DiffersByStatus(t *testing.T) {
	if Fingerprint("rule1", "triggered") == Fingerprint("rule1", "recovered") {
		t.Fatalf("expected distinct fingerprints for different statuses")
	}
}
