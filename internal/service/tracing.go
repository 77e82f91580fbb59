package service

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/nikolayk812/fulfillment/internal/service"

// tracer resolves against the global provider, a no-op until observability.SetupTracing runs.
func tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
