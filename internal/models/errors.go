package models

import "errors"

// Sentinel errors shared across the ingestion, cache, and alerting
// layers. Handlers map these 1:1 to HTTP status codes per spec.md §7.
var (
	ErrSchemaInvalid      = errors.New("schema invalid")
	ErrInvalidLevel       = errors.New("invalid log level")
	ErrInvalidTimestamp   = errors.New("invalid timestamp")
	ErrInvalidQuery       = errors.New("invalid query")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrRuleNotFound       = errors.New("rule not found")
	ErrServiceUnavailable = errors.New("service unavailable")
)
