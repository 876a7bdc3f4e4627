package models

import (
	"fmt"
	"time"
)

// Comparison is the operator an AlertRule uses to test a metric field
// against its threshold.
type Comparison string

const (
	ComparisonGT Comparison = ">"
	ComparisonLT Comparison = "<"
	ComparisonEQ Comparison = "=="
	ComparisonGE Comparison = ">="
	ComparisonLE Comparison = "<="
	ComparisonNE Comparison = "!="
)

// validComparisons is the full operator table the evaluator accepts
// when testing a stored rule against a sample, per
// internal/evaluate/evaluate.go.
var validComparisons = map[Comparison]bool{
	ComparisonGT: true,
	ComparisonLT: true,
	ComparisonEQ: true,
	ComparisonGE: true,
	ComparisonLE: true,
	ComparisonNE: true,
}

// validCreateComparisons is the narrower operator set the external
// create-rule interface accepts (spec.md §6); >=, <=, and != are
// evaluator-internal only and are rejected at creation time.
var validCreateComparisons = map[Comparison]bool{
	ComparisonGT: true,
	ComparisonLT: true,
	ComparisonEQ: true,
}

// AlertStatus names the runtime trigger states of a rule, as observed by
// the evaluator. It is not a field of AlertRule and is not persisted;
// the evaluator tracks trigger state through internal/alertstate markers.
type AlertStatus string

const (
	AlertStatusInactive  AlertStatus = "inactive"
	AlertStatusTriggered AlertStatus = "triggered"
	AlertStatusRecovered AlertStatus = "recovered"
)

// RuleStatus is the rule's persisted enable/disable flag, distinct from
// AlertStatus's runtime trigger state.
type RuleStatus string

const (
	RuleStatusActive   RuleStatus = "active"
	RuleStatusDisabled RuleStatus = "disabled"
)

// AlertRule is a threshold watch over a metric_name/tags/field_name
// series, per spec.md §3.
type AlertRule struct {
	ID                   string              `json:"id" bson:"-"`
	MetricName           string              `json:"metric_name" bson:"metric_name"`
	Tags                 map[string]string   `json:"tags" bson:"tags"`
	FieldName            string              `json:"field_name" bson:"field_name"`
	Threshold            float64             `json:"threshold" bson:"threshold"`
	Comparison           Comparison          `json:"comparison" bson:"comparison"`
	DurationSeconds      int                 `json:"duration_seconds" bson:"duration_seconds"`
	NotificationChannels []string            `json:"notification_channels" bson:"notification_channels"`
	Recipients           map[string][]string `json:"recipients" bson:"recipients"`
	UseRecoveryAlert     bool                `json:"use_recovery_alert" bson:"use_recovery_alert"`
	RecoverySeconds      int                 `json:"recovery_seconds" bson:"recovery_seconds"`
	Status               RuleStatus          `json:"status" bson:"status"`
	CreatedAt            time.Time           `json:"created_at" bson:"created_at"`
}

// AlertRuleCreateRequest is the wire shape accepted on POST /alerts. The
// original Python service accepted a human duration_value+duration_unit
// pair rather than a raw second count; that convenience is preserved as
// a create-time-only field, normalized into DurationSeconds by
// ToAlertRule (REDESIGN FLAG c).
type AlertRuleCreateRequest struct {
	MetricName           string              `json:"metric_name"`
	Tags                 map[string]string   `json:"tags"`
	FieldName            string              `json:"field_name"`
	Threshold            float64             `json:"threshold"`
	Comparison           Comparison          `json:"comparison"`
	DurationValue        float64             `json:"duration_value"`
	DurationUnit         string              `json:"duration_unit"` // "seconds", "minutes", "hours"
	NotificationChannels []string            `json:"notification_channels"`
	Recipients           map[string][]string `json:"recipients"`
	UseRecoveryAlert     bool                `json:"use_recovery_alert"`
	RecoveryValue        float64             `json:"recovery_value"`
	RecoveryUnit         string              `json:"recovery_unit"`
}

func unitToSeconds(value float64, unit string) (int, error) {
	var mul float64
	switch unit {
	case "", "seconds", "second", "sec":
		mul = 1
	case "minutes", "minute", "min":
		mul = 60
	case "hours", "hour":
		mul = 3600
	default:
		return 0, fmt.Errorf("%w: unknown duration unit %q", ErrSchemaInvalid, unit)
	}
	return int(value * mul), nil
}

// ToAlertRule validates the request and normalizes it into a storable
// AlertRule.
func (r *AlertRuleCreateRequest) ToAlertRule() (*AlertRule, error) {
	if r.MetricName == "" {
		return nil, fmt.Errorf("%w: metric_name is required", ErrSchemaInvalid)
	}
	if len(r.Tags) == 0 {
		return nil, fmt.Errorf("%w: tags must be a non-empty mapping", ErrSchemaInvalid)
	}
	if r.FieldName == "" {
		return nil, fmt.Errorf("%w: field_name is required", ErrSchemaInvalid)
	}
	if !validCreateComparisons[r.Comparison] {
		return nil, fmt.Errorf("%w: invalid comparison %q", ErrSchemaInvalid, r.Comparison)
	}
	durationSeconds, err := unitToSeconds(r.DurationValue, r.DurationUnit)
	if err != nil {
		return nil, err
	}
	if durationSeconds <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrSchemaInvalid)
	}
	recoverySeconds := 0
	if r.UseRecoveryAlert {
		recoverySeconds, err = unitToSeconds(r.RecoveryValue, r.RecoveryUnit)
		if err != nil {
			return nil, err
		}
		if recoverySeconds <= 0 {
			return nil, fmt.Errorf("%w: recovery duration must be positive", ErrSchemaInvalid)
		}
	}
	return &AlertRule{
		MetricName:           r.MetricName,
		Tags:                 r.Tags,
		FieldName:            r.FieldName,
		Threshold:            r.Threshold,
		Comparison:           r.Comparison,
		DurationSeconds:      durationSeconds,
		NotificationChannels: r.NotificationChannels,
		Recipients:           r.Recipients,
		UseRecoveryAlert:     r.UseRecoveryAlert,
		RecoverySeconds:      recoverySeconds,
		Status:               RuleStatusActive,
		CreatedAt:            time.Now(),
	}, nil
}
