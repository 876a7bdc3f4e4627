package keyschema

import "testing"

func TestMetricKey_SortsTags(t *testing.T) {
	a := MetricKey("cpu_usage", map[string]string{"host": "a", "region": "us"}, "value")
	b := MetricKey("cpu_usage", map[string]string{"region": "us", "host": "a"}, "value")
	if a != b {
		t.Fatalf("expected tag order to not matter: %q != %q", a, b)
	}
	want := "moniflow:metrics:cpu_usage:host=a,region=us:value"
	if a != want {
		t.Fatalf("got %q, want %q", a, want)
	}
}

func TestMetricKey_EmptyTags(t *testing.T) {
	got := MetricKey("cpu_usage", map[string]string{}, "value")
	want := "moniflow:metrics:cpu_usage::value"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAlertStateKey(t *testing.T) {
	if got, want := AlertStateKey("abc123"), "moniflow:alert_state:abc123"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRecoveryStateKey(t *testing.T) {
	if got, want := RecoveryStateKey("abc123"), "moniflow:recovery_state:abc123"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
