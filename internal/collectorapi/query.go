package collectorapi

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// buildMetricQuery renders a Flux-shaped query string from GET
// /metrics filter params, matching routers/metrics.go's query
// construction: measurement, start/end range, tag equality filters,
// optional group_by_tags, limit, and aggregate window.
func buildMetricQuery(c *fiber.Ctx) string {
	var b strings.Builder
	fmt.Fprintf(&b, `from(bucket: "metrics") |> range(start: %s, stop: %s)`,
		orDefault(c.Query("start"), "-1h"), orDefault(c.Query("end"), "now()"))

	measurement := c.Query("measurement")
	if measurement != "" {
		fmt.Fprintf(&b, ` |> filter(fn: (r) => r._measurement == "%s")`, measurement)
	}
	for k, v := range parseTagParam(c.Query("tags")) {
		fmt.Fprintf(&b, ` |> filter(fn: (r) => r.%s == "%s")`, k, v)
	}
	if groupBy := c.Query("group_by_tags"); groupBy != "" {
		fmt.Fprintf(&b, ` |> group(columns: [%s])`, quoteCSVList(groupBy))
	}
	if aggregate := c.Query("aggregate"); aggregate != "" {
		window := orDefault(c.Query("aggregate_window"), "1m")
		fmt.Fprintf(&b, ` |> aggregateWindow(every: %s, fn: %s)`, window, aggregate)
	}
	if limit := c.Query("limit"); limit != "" {
		fmt.Fprintf(&b, ` |> limit(n: %s)`, limit)
	}
	return b.String()
}

// buildLogQuery renders a Flux-shaped query string from GET /logs
// filter params (service, level, start, end).
func buildLogQuery(c *fiber.Ctx) string {
	var b strings.Builder
	fmt.Fprintf(&b, `from(bucket: "metrics") |> range(start: %s, stop: %s) |> filter(fn: (r) => r._measurement == "logs")`,
		orDefault(c.Query("start"), "-1h"), orDefault(c.Query("end"), "now()"))

	if service := c.Query("service"); service != "" {
		fmt.Fprintf(&b, ` |> filter(fn: (r) => r.service == "%s")`, service)
	}
	if level := c.Query("level"); level != "" {
		fmt.Fprintf(&b, ` |> filter(fn: (r) => r.level == "%s")`, level)
	}
	return b.String()
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// parseTagParam parses comma-separated k=v pairs, per spec.md §E.
func parseTagParam(raw string) map[string]string {
	tags := map[string]string{}
	if raw == "" {
		return tags
	}
	for _, pair := range strings.Split(raw, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 {
			tags[kv[0]] = kv[1]
		}
	}
	return tags
}

func quoteCSVList(raw string) string {
	parts := strings.Split(raw, ",")
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = fmt.Sprintf("%q", strings.TrimSpace(p))
	}
	return strings.Join(quoted, ", ")
}

// parseCSVRows decodes an InfluxDB-style annotated CSV response into a
// list of plain column->value rows, skipping Flux's leading "#"
// annotation lines.
func parseCSVRows(raw []byte) []map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var dataLines []string
	for _, line := range strings.Split(string(raw), "\n") {
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		dataLines = append(dataLines, line)
	}
	if len(dataLines) < 2 {
		return nil
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(dataLines, "\n")))
	records, err := reader.ReadAll()
	if err != nil || len(records) < 2 {
		return nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// groupLogsByService groups rows by their "service" column. When level
// is non-empty the grouping nests one level deeper by "level" under
// each service key, matching group_logs_by_service's original
// semantics.
func groupLogsByService(rows []map[string]string, level string) map[string]interface{} {
	grouped := map[string]interface{}{}

	if level != "" {
		byServiceLevel := map[string]map[string][]map[string]string{}
		services := make([]string, 0)
		for _, row := range rows {
			service := row["service"]
			rowLevel := row["level"]
			if byServiceLevel[service] == nil {
				byServiceLevel[service] = map[string][]map[string]string{}
				services = append(services, service)
			}
			byServiceLevel[service][rowLevel] = append(byServiceLevel[service][rowLevel], row)
		}
		sort.Strings(services)
		for _, service := range services {
			grouped[service] = byServiceLevel[service]
		}
		return grouped
	}

	byService := map[string][]map[string]string{}
	services := make([]string, 0)
	for _, row := range rows {
		service := row["service"]
		if _, ok := byService[service]; !ok {
			services = append(services, service)
		}
		byService[service] = append(byService[service], row)
	}
	sort.Strings(services)
	for _, service := range services {
		grouped[service] = byService[service]
	}
	return grouped
}
