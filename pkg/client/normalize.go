package client

import (
	"encoding/json"
	"strings"
	"time"
)

// Summary is the normalized counts payload. Progress is completed over
// total, 0 when the list is empty.
type Summary struct {
	Total     int
	Completed int
	Pending   int
	Progress  float64
}

// DayCounts is one weekday bucket of the weekly summary.
type DayCounts struct {
	Total     int
	Completed int
}

// WeeklySummary holds one bucket per weekday, Sunday first.
type WeeklySummary struct {
	Days [7]DayCounts
}

func (w WeeklySummary) Day(day time.Weekday) DayCounts {
	return w.Days[day]
}

// NormalizeSummary tolerates PascalCase and camelCase field names and
// missing fields. Unknown shapes normalize to all zeros rather than
// failing.
func NormalizeSummary(raw json.RawMessage) Summary {
	fields := decodeLowerKeys(raw)

	total := pickInt(fields, "totalcount", "total")
	completed := pickInt(fields, "completedcount", "completed")
	pending, ok := lookupInt(fields, "pendingcount", "pending")

	if !ok {
		pending = total - completed
	}

	if pending < 0 {
		pending = 0
	}

	summary := Summary{
		Total:     total,
		Completed: completed,
		Pending:   pending,
	}

	if total > 0 {
		summary.Progress = float64(completed) / float64(total)
	}

	return summary
}

var weekdayKeys = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// NormalizeWeeklySummary decodes the weekly payload with the same
// casing tolerance. Missing days default to empty buckets.
func NormalizeWeeklySummary(raw json.RawMessage) WeeklySummary {
	var outer map[string]json.RawMessage

	var weekly WeeklySummary

	if err := json.Unmarshal(raw, &outer); err != nil {
		return weekly
	}

	lowered := make(map[string]json.RawMessage, len(outer))

	for key, value := range outer {
		lowered[strings.ToLower(key)] = value
	}

	for i, key := range weekdayKeys {
		dayRaw, ok := lowered[key]

		if !ok {
			continue
		}

		fields := decodeLowerKeys(dayRaw)

		weekly.Days[i] = DayCounts{
			Total:     pickInt(fields, "total"),
			Completed: pickInt(fields, "completed"),
		}
	}

	return weekly
}

func decodeLowerKeys(raw json.RawMessage) map[string]float64 {
	var outer map[string]any

	if err := json.Unmarshal(raw, &outer); err != nil {
		return nil
	}

	fields := make(map[string]float64, len(outer))

	for key, value := range outer {
		if number, ok := value.(float64); ok {
			fields[strings.ToLower(key)] = number
		}
	}

	return fields
}

func pickInt(fields map[string]float64, keys ...string) int {
	value, _ := lookupInt(fields, keys...)
	return value
}

func lookupInt(fields map[string]float64, keys ...string) (int, bool) {
	for _, key := range keys {
		if value, ok := fields[key]; ok {
			return int(value), true
		}
	}

	return 0, false
}
