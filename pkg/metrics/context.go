// Package metrics reports traces, custom events and custom metrics to New
// Relic. Every function is a no-op when its context carries no New Relic
// application or transaction.
package metrics

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

type newRelicContextKey struct{}

// NewRelicContextKey is the context key holding the *newrelic.Application used
// for custom events and metrics.
var NewRelicContextKey = newRelicContextKey{}

// NewContext returns a copy of ctx that records custom events and metrics to app
func NewContext(ctx context.Context, app *newrelic.Application) context.Context {
	return context.WithValue(ctx, NewRelicContextKey, app)
}

func applicationFrom(ctx context.Context) *newrelic.Application {
	app, _ := ctx.Value(NewRelicContextKey).(*newrelic.Application)
	return app
}
