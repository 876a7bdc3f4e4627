package evaluate

import (
	"testing"

	"github.com/moniflow/backend/internal/models"
)

func TestEvaluate_AllMustMatch(t *testing.T) {
	values := []float64{95, 96, 97}
	if !Evaluate(models.ComparisonGT, 90, values) {
		t.Fatalf("expected all values above threshold to trigger")
	}
	if Evaluate(models.ComparisonGT, 96, values) {
		t.Fatalf("expected mixed values to not trigger with all() semantics")
	}
}

func TestEvaluate_EmptyValues(t *testing.T) {
	if Evaluate(models.ComparisonGT, 90, nil) {
		t.Fatalf("expected empty value window to not trigger")
	}
}

func TestEvaluate_UnknownOperator(t *testing.T) {
	if Evaluate(models.Comparison("~="), 90, []float64{100}) {
		t.Fatalf("expected unknown operator to not trigger")
	}
}

func TestEvaluate_AllOperators(t *testing.T) {
	cases := []struct {
		op   models.Comparison
		val  float64
		thr  float64
		want bool
	}{
		{models.ComparisonGT, 5, 3, true},
		{models.ComparisonLT, 2, 3, true},
		{models.ComparisonEQ, 3, 3, true},
		{models.ComparisonGE, 3, 3, true},
		{models.ComparisonLE, 3, 3, true},
		{models.ComparisonNE, 4, 3, true},
	}
	for _, c := range cases {
		if got := Evaluate(c.op, c.thr, []float64{c.val}); got != c.want {
			t.Fatalf("%s: got %v, want %v", c.op, got, c.want)
		}
	}
}
