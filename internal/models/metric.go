package models

import "fmt"

// MetricSample is a single numeric measurement pushed by a client.
//
// Tags and Fields must both be non-empty; Fields values are widened to
// float64 on decode so the time-series store never sees a schema
// conflict between an int and a float write for the same field.
type MetricSample struct {
	Measurement string             `json:"measurement"`
	Tags        map[string]string  `json:"tags"`
	Fields      map[string]float64 `json:"fields"`
	Timestamp   string             `json:"timestamp,omitempty"`
}

// Validate checks the structural invariants from spec.md §3.
func (m MetricSample) Validate() error {
	if m.Measurement == "" {
		return fmt.Errorf("%w: measurement is required", ErrSchemaInvalid)
	}
	if len(m.Tags) == 0 {
		return fmt.Errorf("%w: tags must be non-empty", ErrSchemaInvalid)
	}
	if len(m.Fields) == 0 {
		return fmt.Errorf("%w: fields must be non-empty", ErrSchemaInvalid)
	}
	return nil
}
