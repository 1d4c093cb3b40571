package metrics

import (
	"context"
	"time"
)

// RecordEvent records a custom event, such as a processed claim
func RecordEvent(ctx context.Context, eventName string, kvPairs map[string]interface{}) {
	if app := applicationFrom(ctx); app != nil {
		app.RecordCustomEvent(eventName, kvPairs)
	}
}

// RecordCount records a count metric
func RecordCount(ctx context.Context, metricName string, count uint64) {
	if app := applicationFrom(ctx); app != nil {
		app.RecordCustomMetric(metricName, float64(count))
	}
}

// RecordDuration records a duration metric in milliseconds
func RecordDuration(ctx context.Context, metricName string, duration time.Duration) {
	if app := applicationFrom(ctx); app != nil {
		app.RecordCustomMetric(metricName, float64(duration.Milliseconds()))
	}
}
