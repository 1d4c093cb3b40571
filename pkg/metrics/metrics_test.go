package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopWithoutNewRelic(t *testing.T) {
	ctx := context.Background()

	RecordEvent(ctx, "FaucetClaim", map[string]interface{}{"amount": 1})
	RecordCount(ctx, "count", 1)
	RecordDuration(ctx, "duration", time.Second)

	tracer := TraceMethodCall(ctx, "faucet", "Claim")
	assert.Nil(t, tracer)
	tracer.AddAttribute("key", "value")
	tracer.AddAttributes(map[string]interface{}{"key": "value"})
	tracer.OnError(errors.New("error"))
	tracer.End()
}

func TestWithNewRelic(t *testing.T) {
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("faucet-test"),
		newrelic.ConfigEnabled(false),
	)
	require.NoError(t, err)

	ctx := NewContext(context.Background(), app)
	assert.Equal(t, app, ctx.Value(NewRelicContextKey))

	RecordEvent(ctx, "FaucetClaim", map[string]interface{}{"amount": 1})
	RecordCount(ctx, "count", 1)
	RecordDuration(ctx, "solana.runtime.transaction_duration", 15*time.Millisecond)

	txn := app.StartTransaction("test")
	defer txn.End()

	tracer := TraceMethodCall(newrelic.NewContext(ctx, txn), "faucet", "Claim")
	require.NotNil(t, tracer)
	tracer.AddAttribute("key", "value")
	tracer.OnError(errors.New("error"))
	tracer.End()
}
