package tracing

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestHandler_RecordsRequestSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := NewProvider(exporter, "vehicle-service-test")
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), tp, "api")

	req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	require.NoError(t, tp.ForceFlush(context.Background()))
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext.TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", spans[0].Parent.SpanID().String())

	name, ok := spans[0].Resource.Set().Value(attribute.Key("service.name"))
	require.True(t, ok)
	assert.Equal(t, "vehicle-service-test", name.AsString())
}

func TestSetup_WritesSpans(t *testing.T) {
	var buf bytes.Buffer
	tp, err := Setup(&buf, ServiceName)
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "booking.create")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "booking.create")
	assert.Contains(t, buf.String(), ServiceName)
}
