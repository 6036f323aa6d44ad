package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/Togather-Foundation/glee/internal/config"
	"github.com/stretchr/testify/require"
)

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), config.TracingConfig{Enabled: false}, "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitTracingRejectsBadConfig(t *testing.T) {
	_, err := InitTracing(context.Background(), config.TracingConfig{Enabled: true, Exporter: "none", SampleRate: 1.5}, "test")
	require.Error(t, err)

	_, err = InitTracing(context.Background(), config.TracingConfig{Enabled: true, Exporter: "jaeger", SampleRate: 1}, "test")
	require.ErrorContains(t, err, "jaeger")
}

func TestInitTracingStdoutExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()
	shutdown, err := initTracing(ctx, config.TracingConfig{
		Enabled:     true,
		Exporter:    "stdout",
		ServiceName: "glee-test",
		SampleRate:  1,
	}, "0.0.1", &buf)
	require.NoError(t, err)

	_, span := Tracer("glee/test").Start(ctx, "dispatch")
	span.End()

	require.NoError(t, shutdown(ctx))
	require.Contains(t, buf.String(), `"Name":"dispatch"`)
	require.Contains(t, buf.String(), "glee-test")
}
