package models

import "time"

// AlertHistoryStatus is the transition an AlertHistoryEntry records.
type AlertHistoryStatus string

const (
	AlertHistoryTriggered AlertHistoryStatus = "triggered"
	AlertHistoryRecovered AlertHistoryStatus = "recovered"
)

// AlertHistoryEntry is an immutable record of one state transition
// produced by the evaluator, appended to rulestore's history collection
// per spec.md §4.E / §4.H.
type AlertHistoryEntry struct {
	RuleID     string             `json:"rule_id" bson:"rule_id"`
	MetricName string             `json:"metric_name" bson:"metric_name"`
	Tags       map[string]string  `json:"tags" bson:"tags"`
	FieldName  string             `json:"field_name" bson:"field_name"`
	Status     AlertHistoryStatus `json:"status" bson:"status"`
	Timestamp  time.Time          `json:"timestamp" bson:"timestamp"`
}
