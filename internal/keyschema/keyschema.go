// Package keyschema builds the Redis keys shared by hotcache and
// alertstate, per spec.md §4.A.
package keyschema

import (
	"fmt"
	"sort"
	"strings"
)

// MetricKey builds the sorted-set key a metric sample/query lives
// under:
//
//	moniflow:metrics:{metric_name}:{sorted_tags}:{field_name}
//
// Tags are sorted by key so that {a:1,b:2} and {b:2,a:1} hash to the
// same series.
func MetricKey(metricName string, tags map[string]string, fieldName string) string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, tags[k]))
	}

	return fmt.Sprintf("moniflow:metrics:%s:%s:%s", metricName, strings.Join(pairs, ","), fieldName)
}

// AlertStateKey builds the key tracking whether a rule is currently in
// the triggered state: moniflow:alert_state:{rule_id}
func AlertStateKey(ruleID string) string {
	return fmt.Sprintf("moniflow:alert_state:%s", ruleID)
}

// RecoveryStateKey builds the key tracking whether a rule's recovery
// alert has already fired: moniflow:recovery_state:{rule_id}
func RecoveryStateKey(ruleID string) string {
	return fmt.Sprintf("moniflow:recovery_state:%s", ruleID)
}
