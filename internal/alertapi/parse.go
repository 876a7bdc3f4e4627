package alertapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/moniflow/backend/internal/models"
)

// parseSamples accepts either a single metric sample object or a JSON
// array of samples, per spec.md §4.J's "single sample or a list".
func parseSamples(body []byte) ([]models.MetricSample, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty request body", models.ErrSchemaInvalid)
	}

	if trimmed[0] == '[' {
		var samples []models.MetricSample
		if err := json.Unmarshal(trimmed, &samples); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrSchemaInvalid, err)
		}
		return samples, nil
	}

	var sample models.MetricSample
	if err := json.Unmarshal(trimmed, &sample); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSchemaInvalid, err)
	}
	return []models.MetricSample{sample}, nil
}
