// Package evaluate holds the pure comparison predicate the evaluator
// applies to a window of metric values, per spec.md §4.H.
package evaluate

import "github.com/moniflow/backend/internal/models"

type comparator func(value, threshold float64) bool

var comparisonOperators = map[models.Comparison]comparator{
	models.ComparisonGT: func(v, t float64) bool { return v > t },
	models.ComparisonLT: func(v, t float64) bool { return v < t },
	models.ComparisonEQ: func(v, t float64) bool { return v == t },
	models.ComparisonGE: func(v, t float64) bool { return v >= t },
	models.ComparisonLE: func(v, t float64) bool { return v <= t },
	models.ComparisonNE: func(v, t float64) bool { return v != t },
}

// Evaluate reports whether every value in the window satisfies
// comparison against threshold. An unknown comparison operator or an
// empty value window both evaluate to false rather than erroring,
// matching AlertEvaluator.evaluate in the original service.
func Evaluate(comparison models.Comparison, threshold float64, values []float64) bool {
	comparator, ok := comparisonOperators[comparison]
	if !ok {
		return false
	}
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if !comparator(v, threshold) {
			return false
		}
	}
	return true
}

// FromRule evaluates rule's comparison/threshold against values.
func FromRule(rule models.AlertRule, values []float64) bool {
	return Evaluate(rule.Comparison, rule.Threshold, values)
}
