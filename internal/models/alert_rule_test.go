package models

import (
	"errors"
	"testing"
)

func validCreateRequest() AlertRuleCreateRequest {
	return AlertRuleCreateRequest{
		MetricName:    "cpu_usage",
		Tags:          map[string]string{"host": "a"},
		FieldName:     "value",
		Threshold:     80,
		Comparison:    ComparisonGT,
		DurationValue: 60,
		DurationUnit:  "seconds",
	}
}

func TestToAlertRule_Valid(t *testing.T) {
	req := validCreateRequest()
	rule, err := req.ToAlertRule()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule.Status != RuleStatusActive {
		t.Fatalf("expected new rule to default to status %q, got %q", RuleStatusActive, rule.Status)
	}
}

func TestToAlertRule_RejectsEmptyTags(t *testing.T) {
	req := validCreateRequest()
	req.Tags = nil
	if _, err := req.ToAlertRule(); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid for empty tags, got %v", err)
	}
}

func TestToAlertRule_RejectsEvaluatorOnlyComparisons(t *testing.T) {
	for _, cmp := range []Comparison{ComparisonGE, ComparisonLE, ComparisonNE} {
		req := validCreateRequest()
		req.Comparison = cmp
		if _, err := req.ToAlertRule(); !errors.Is(err, ErrSchemaInvalid) {
			t.Fatalf("expected comparison %q to be rejected at create time, got %v", cmp, err)
		}
	}
}

func TestToAlertRule_AcceptsCreateComparisons(t *testing.T) {
	for _, cmp := range []Comparison{ComparisonGT, ComparisonLT, ComparisonEQ} {
		req := validCreateRequest()
		req.Comparison = cmp
		if _, err := req.ToAlertRule(); err != nil {
			t.Fatalf("expected comparison %q to be accepted at create time, got %v", cmp, err)
		}
	}
}

func TestToAlertRule_AcceptsMappingRecipients(t *testing.T) {
	req := validCreateRequest()
	req.Recipients = map[string][]string{"email": {"ops@example.com"}}
	rule, err := req.ToAlertRule()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rule.Recipients["email"]) != 1 || rule.Recipients["email"][0] != "ops@example.com" {
		t.Fatalf("expected recipients to carry through as a mapping, got %+v", rule.Recipients)
	}
}
