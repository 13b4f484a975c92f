package sst

import (
	"sort"
	"time"
)

// AggregateDaily converts a finite, possibly unordered batch of readings into
// one DailySummary per distinct calendar date, sorted ascending by date.
//
// Each reading's calendar date is taken in the reading's own timezone before
// the time-of-day is discarded. Readings with a nil Temp stay in their group
// but contribute nothing to the statistics; a date where every reading is nil
// yields a summary with nil Min, Max and Mean rather than an error, since a
// whole day of missing sensor data is a normal occurrence in unattended
// telemetry. An empty input yields an empty output.
func AggregateDaily(readings []Reading) []DailySummary {
	groups := make(map[string][]float64)
	dates := make(map[string]time.Time)

	for _, r := range readings {
		ts := r.Timestamp
		key := ts.Format(DateLayout)
		if _, ok := dates[key]; !ok {
			dates[key] = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
			groups[key] = nil
		}
		if r.Temp != nil {
			groups[key] = append(groups[key], *r.Temp)
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	summaries := make([]DailySummary, 0, len(keys))
	for _, k := range keys {
		summaries = append(summaries, summarize(dates[k], groups[k]))
	}
	return summaries
}

// summarize reduces one date's present values to min/mean/max.
func summarize(date time.Time, values []float64) DailySummary {
	if len(values) == 0 {
		return DailySummary{Date: date}
	}

	min, max, sum := values[0], values[0], 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean := sum / float64(len(values))

	return DailySummary{Date: date, Min: &min, Max: &max, Mean: &mean}
}
