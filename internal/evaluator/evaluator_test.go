package evaluator

import (
	"context"
	"testing"

	"github.com/moniflow/backend/internal/models"
	"github.com/moniflow/backend/internal/notifier"
)

type fakeRules struct {
	rules   []models.AlertRule
	history []models.AlertHistoryEntry
}

func (f *fakeRules) List(ctx context.Context) ([]models.AlertRule, error) { return f.rules, nil }
func (f *fakeRules) AppendHistory(ctx context.Context, entry models.AlertHistoryEntry) error {
	f.history = append(f.history, entry)
	return nil
}

type fakeCache struct {
	values []float64
}

func (f *fakeCache) Query(ctx context.Context, metricName string, tags map[string]string, fieldName string, durationSeconds int64) ([]float64, error) {
	return f.values, nil
}

type fakeState struct {
	alerting  map[string]bool
	recovered map[string]bool
}

func (f *fakeState) HasAlert(ctx context.Context, ruleID string) (bool, error) {
	return f.alerting[ruleID], nil
}
func (f *fakeState) SetAlert(ctx context.Context, ruleID string, durationSeconds int) error {
	if f.alerting == nil {
		f.alerting = map[string]bool{}
	}
	f.alerting[ruleID] = true
	return nil
}
func (f *fakeState) SetRecovery(ctx context.Context, ruleID string, recoverySeconds int) error {
	if f.recovered == nil {
		f.recovered = map[string]bool{}
	}
	f.recovered[ruleID] = true
	return nil
}
func (f *fakeState) HasRecovery(ctx context.Context, ruleID string) (bool, error) {
	return f.recovered[ruleID], nil
}

type fakeDispatcher struct {
	sent []notifier.Notification
}

func (f *fakeDispatcher) Dispatch(n notifier.Notification, channelIDs []string) {
	f.sent = append(f.sent, n)
}

func baseRule() models.AlertRule {
	return models.AlertRule{
		ID:              "rule1",
		MetricName:      "cpu",
		FieldName:       "usage",
		Threshold:       80,
		Comparison:      models.ComparisonGT,
		DurationSeconds: 60,
		RecoverySeconds: 60,
	}
}

func TestEvaluateRule_TriggersOnFirstBreach(t *testing.T) {
	rules := &fakeRules{rules: []models.AlertRule{baseRule()}}
	cache := &fakeCache{values: []float64{90, 95}}
	state := &fakeState{}
	dispatch := &fakeDispatcher{}

	e := New(rules, cache, state, dispatch)
	e.fetchAlertRules(context.Background())

	if !state.alerting["rule1"] {
		t.Fatalf("expected alert marker to be set")
	}
	if len(rules.history) != 1 || rules.history[0].Status != models.AlertHistoryTriggered {
		t.Fatalf("expected one triggered history entry, got %+v", rules.history)
	}
	if len(dispatch.sent) != 1 || dispatch.sent[0].Status != models.AlertHistoryTriggered {
		t.Fatalf("expected one triggered notification, got %+v", dispatch.sent)
	}
}

func TestEvaluateRule_SuppressesDuplicateTrigger(t *testing.T) {
	rules := &fakeRules{rules: []models.AlertRule{baseRule()}}
	cache := &fakeCache{values: []float64{90}}
	state := &fakeState{alerting: map[string]bool{"rule1": true}}
	dispatch := &fakeDispatcher{}

	e := New(rules, cache, state, dispatch)
	e.fetchAlertRules(context.Background())

	if len(dispatch.sent) != 0 {
		t.Fatalf("expected no duplicate notification, got %+v", dispatch.sent)
	}
	if len(rules.history) != 0 {
		t.Fatalf("expected no duplicate history entry, got %+v", rules.history)
	}
}

func TestEvaluateRule_RecoversWhenNoLongerFiring(t *testing.T) {
	rules := &fakeRules{rules: []models.AlertRule{baseRule()}}
	cache := &fakeCache{values: []float64{10}}
	state := &fakeState{alerting: map[string]bool{"rule1": true}}
	dispatch := &fakeDispatcher{}

	e := New(rules, cache, state, dispatch)
	e.fetchAlertRules(context.Background())

	if !state.recovered["rule1"] {
		t.Fatalf("expected recovery marker to be set on recovery")
	}
	if len(rules.history) != 1 || rules.history[0].Status != models.AlertHistoryRecovered {
		t.Fatalf("expected one recovered history entry, got %+v", rules.history)
	}
	if len(dispatch.sent) != 1 || dispatch.sent[0].Status != models.AlertHistoryRecovered {
		t.Fatalf("expected one recovered notification, got %+v", dispatch.sent)
	}
}

func TestEvaluateRule_InactiveStaysQuiet(t *testing.T) {
	rules := &fakeRules{rules: []models.AlertRule{baseRule()}}
	cache := &fakeCache{values: []float64{10}}
	state := &fakeState{}
	dispatch := &fakeDispatcher{}

	e := New(rules, cache, state, dispatch)
	e.fetchAlertRules(context.Background())

	if len(dispatch.sent) != 0 || len(rules.history) != 0 {
		t.Fatalf("expected no transition for an already-inactive rule, got history=%+v sent=%+v", rules.history, dispatch.sent)
	}
}

func TestEvaluateRule_SkipsInvalidRuleWithoutHaltingTick(t *testing.T) {
	invalid := baseRule()
	invalid.ID = "bad"
	invalid.MetricName = ""
	rules := &fakeRules{rules: []models.AlertRule{invalid, baseRule()}}
	cache := &fakeCache{values: []float64{90}}
	state := &fakeState{}
	dispatch := &fakeDispatcher{}

	e := New(rules, cache, state, dispatch)
	e.fetchAlertRules(context.Background())

	if len(dispatch.sent) != 1 {
		t.Fatalf("expected the valid rule to still be evaluated, got %+v", dispatch.sent)
	}
}

func TestFetchAlertRules_SkipsDisabledRules(t *testing.T) {
	disabled := baseRule()
	disabled.Status = models.RuleStatusDisabled
	rules := &fakeRules{rules: []models.AlertRule{disabled}}
	cache := &fakeCache{values: []float64{90}}
	state := &fakeState{}
	dispatch := &fakeDispatcher{}

	e := New(rules, cache, state, dispatch)
	e.fetchAlertRules(context.Background())

	if len(dispatch.sent) != 0 || len(rules.history) != 0 {
		t.Fatalf("expected a disabled rule to be skipped entirely, got history=%+v sent=%+v", rules.history, dispatch.sent)
	}
}
