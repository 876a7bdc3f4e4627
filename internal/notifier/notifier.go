// Package notifier dispatches triggered/recovered alert notifications
// to configured channels, per spec.md §3's notification_channels /
// recipients fields and SPEC_FULL.md §D.1. It adapts the teacher's
// alerter package: the AlertProvider interface, dedup, and
// telegram/discord transports carry over unchanged in shape; the
// Notification payload and history bookkeeping are generalized from
// service-health alerts to threshold-rule alerts.
package notifier

import (
	"time"

	"github.com/moniflow/backend/internal/models"
)

// AlertProvider is the external collaborator spec.md §3 calls
// "Notifier": anything that can deliver a rendered alert message.
type AlertProvider interface {
	Send(notification Notification) error
}

// Notification carries everything a provider needs to render an alert
// or recovery message for one rule evaluation.
type Notification struct {
	RuleID     string
	MetricName string
	Tags       map[string]string
	FieldName  string
	Threshold  float64
	Comparison models.Comparison
	Values     []float64
	Status     models.AlertHistoryStatus // triggered | recovered
	Message    string
	Recipients map[string][]string // channel -> addresses, per spec.md §3
	Time       time.Time
}
