package notifier

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// Deduplicator prevents duplicate alert notifications within a
// cooldown window, carried over from the teacher's alerter package
// unchanged.
type Deduplicator struct {
	mu          sync.Mutex
	lastAlerted map[string]time.Time
	cooldown    time.Duration
}

// NewDeduplicator creates a deduplicator with the given cooldown.
func NewDeduplicator(cooldown time.Duration) *Deduplicator {
	d := &Deduplicator{
		lastAlerted: make(map[string]time.Time),
		cooldown:    cooldown,
	}
	go d.cleanup()
	return d
}

// ShouldAlert reports whether an alert should be sent for fingerprint.
func (d *Deduplicator) ShouldAlert(fingerprint string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	last, exists := d.lastAlerted[fingerprint]
	if exists && time.Since(last) < d.cooldown {
		return false
	}
	d.lastAlerted[fingerprint] = time.Now()
	return true
}

// Fingerprint derives a dedup key from a rule id and its alert status.
func Fingerprint(ruleID string, status string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s:%s", ruleID, status)))
	return fmt.Sprintf("%x", h[:8])
}

func (d *Deduplicator) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		d.mu.Lock()
		now := time.Now()
		for fp, t := range d.lastAlerted {
			if now.Sub(t) > d.cooldown*2 {
				delete(d.lastAlerted, fp)
			}
		}
		d.mu.Unlock()
	}
}
