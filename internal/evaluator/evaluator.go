// Package evaluator is the scheduled alerting core, per spec.md §4.H.
// It ticks on two schedules wired via robfig/cron: process_metrics
// every 30s (drains any residual hot-cache ingest auxiliary queue) and
// fetch_alert_rules every 60s (the alerting state machine), adapted
// from the teacher's checker/scheduler.go cron wiring.
package evaluator

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/moniflow/backend/internal/evaluate"
	"github.com/moniflow/backend/internal/models"
	"github.com/moniflow/backend/internal/notifier"
)

// RuleStore is the subset of rulestore.Store the evaluator needs.
type RuleStore interface {
	List(ctx context.Context) ([]models.AlertRule, error)
	AppendHistory(ctx context.Context, entry models.AlertHistoryEntry) error
}

// CacheQuerier is the subset of hotcache.Store the evaluator needs.
type CacheQuerier interface {
	Query(ctx context.Context, metricName string, tags map[string]string, fieldName string, durationSeconds int64) ([]float64, error)
}

// StateStore is the subset of alertstate.Store the evaluator needs.
type StateStore interface {
	HasAlert(ctx context.Context, ruleID string) (bool, error)
	SetAlert(ctx context.Context, ruleID string, durationSeconds int) error
	SetRecovery(ctx context.Context, ruleID string, recoverySeconds int) error
	HasRecovery(ctx context.Context, ruleID string) (bool, error)
}

// Dispatcher is the subset of notifier.Manager the evaluator needs.
type Dispatcher interface {
	Dispatch(notification notifier.Notification, channelIDs []string)
}

// Evaluator runs the two scheduled tasks over a shared rule store, hot
// cache, state store, and notifier.
type Evaluator struct {
	rules  RuleStore
	cache  CacheQuerier
	state  StateStore
	notify Dispatcher
	cron   *cron.Cron
}

// New builds an Evaluator. Call Start to begin ticking.
func New(rules RuleStore, cache CacheQuerier, state StateStore, notify Dispatcher) *Evaluator {
	return &Evaluator{
		rules:  rules,
		cache:  cache,
		state:  state,
		notify: notify,
		cron:   cron.New(cron.WithSeconds()),
	}
}

// Start registers both scheduled tasks and starts the cron scheduler.
// It returns immediately; call Stop to shut down cleanly.
func (e *Evaluator) Start(ctx context.Context) error {
	if _, err := e.cron.AddFunc("@every 30s", func() { e.processMetrics(ctx) }); err != nil {
		return err
	}
	if _, err := e.cron.AddFunc("@every 60s", func() { e.fetchAlertRules(ctx) }); err != nil {
		return err
	}
	e.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for any in-flight tick to finish.
func (e *Evaluator) Stop() {
	<-e.cron.Stop().Done()
}

// processMetrics drains any residual hot-cache ingest auxiliary queue.
// MoniFlow's HotCache writes directly to Redis sorted sets rather than
// staging through an auxiliary list, so there is nothing to drain; the
// tick is kept as a no-op hook so the scheduler shape matches spec.md
// §4.H exactly and a future auxiliary queue has somewhere to plug in.
func (e *Evaluator) processMetrics(ctx context.Context) {
	_ = ctx
}

// fetchAlertRules is the alerting core: for every stored rule, query
// the hot cache window, evaluate the predicate, and drive the
// inactive/triggered/recovered state machine. A single rule's failure
// is logged and skipped; it never halts the tick.
func (e *Evaluator) fetchAlertRules(ctx context.Context) {
	rules, err := e.rules.List(ctx)
	if err != nil {
		log.Printf("[Evaluator] failed to list rules: %v", err)
		return
	}

	for _, rule := range rules {
		if rule.Status == models.RuleStatusDisabled {
			continue
		}
		e.evaluateRule(ctx, rule)
	}
}

func (e *Evaluator) evaluateRule(ctx context.Context, rule models.AlertRule) {
	if err := validateRule(rule); err != nil {
		log.Printf("[Evaluator] skipping invalid rule %s: %v", rule.ID, err)
		return
	}

	values, err := e.cache.Query(ctx, rule.MetricName, rule.Tags, rule.FieldName, int64(rule.DurationSeconds))
	if err != nil {
		log.Printf("[Evaluator] skipping rule %s: query failed: %v", rule.ID, err)
		return
	}

	fired := evaluate.FromRule(rule, values)

	hasAlert, err := e.state.HasAlert(ctx, rule.ID)
	if err != nil {
		log.Printf("[Evaluator] skipping rule %s: state lookup failed: %v", rule.ID, err)
		return
	}

	now := time.Now().UTC()

	if fired {
		if hasAlert {
			return
		}
		if err := e.state.SetAlert(ctx, rule.ID, rule.DurationSeconds); err != nil {
			log.Printf("[Evaluator] rule %s: failed to set alert marker: %v", rule.ID, err)
			return
		}
		e.recordTransition(ctx, rule, models.AlertHistoryTriggered, now)
		e.notify.Dispatch(notification(rule, values, models.AlertHistoryTriggered, now), rule.NotificationChannels)
		return
	}

	if hasAlert {
		hasRecovery, err := e.state.HasRecovery(ctx, rule.ID)
		if err != nil {
			log.Printf("[Evaluator] skipping rule %s: recovery state lookup failed: %v", rule.ID, err)
			return
		}
		if hasRecovery {
			return
		}
		if err := e.state.SetRecovery(ctx, rule.ID, rule.RecoverySeconds); err != nil {
			log.Printf("[Evaluator] rule %s: failed to set recovery marker: %v", rule.ID, err)
			return
		}
		e.recordTransition(ctx, rule, models.AlertHistoryRecovered, now)
		e.notify.Dispatch(notification(rule, values, models.AlertHistoryRecovered, now), rule.NotificationChannels)
	}
}

func (e *Evaluator) recordTransition(ctx context.Context, rule models.AlertRule, status models.AlertHistoryStatus, at time.Time) {
	entry := models.AlertHistoryEntry{
		RuleID:     rule.ID,
		MetricName: rule.MetricName,
		Tags:       rule.Tags,
		FieldName:  rule.FieldName,
		Status:     status,
		Timestamp:  at,
	}
	if err := e.rules.AppendHistory(ctx, entry); err != nil {
		log.Printf("[Evaluator] rule %s: failed to append history: %v", rule.ID, err)
	}
}

func notification(rule models.AlertRule, values []float64, status models.AlertHistoryStatus, at time.Time) notifier.Notification {
	return notifier.Notification{
		RuleID:     rule.ID,
		MetricName: rule.MetricName,
		Tags:       rule.Tags,
		FieldName:  rule.FieldName,
		Threshold:  rule.Threshold,
		Comparison: rule.Comparison,
		Values:     values,
		Status:     status,
		Recipients: rule.Recipients,
		Time:       at,
	}
}

// validateRule is the evaluator's schema check, equivalent to the
// original's Pydantic re-validation of a rule document before use.
func validateRule(rule models.AlertRule) error {
	if rule.MetricName == "" {
		return models.ErrSchemaInvalid
	}
	if rule.FieldName == "" {
		return models.ErrSchemaInvalid
	}
	if rule.DurationSeconds <= 0 {
		return models.ErrSchemaInvalid
	}
	return nil
}
