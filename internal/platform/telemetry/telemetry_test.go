package telemetry_test

import (
	"context"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jsamuelsen11/pallet-inventory/internal/platform/telemetry"
)

func TestInitTracer_Stdout(t *testing.T) {
	ctx := context.Background()

	tp, err := telemetry.InitTracer(ctx, "pallet-inventory-test", telemetry.ExporterStdout, "")
	if err != nil {
		t.Fatalf("InitTracer(stdout) error = %v", err)
	}
	t.Cleanup(func() {
		if err := tp.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown error = %v", err)
		}
	})

	if tp == nil {
		t.Fatal("InitTracer(stdout) returned nil TracerProvider")
	}
}

func TestInitTracer_OTLP(t *testing.T) {
	ctx := context.Background()

	tp, err := telemetry.InitTracer(ctx, "pallet-inventory-test", telemetry.ExporterOTLP, "http://localhost:4318")
	if err != nil {
		t.Fatalf("InitTracer(otlp) error = %v", err)
	}
	t.Cleanup(func() {
		// Shutdown may fail when no collector is running; this is expected in unit tests.
		_ = tp.Shutdown(ctx)
	})

	if tp == nil {
		t.Fatal("InitTracer(otlp) returned nil TracerProvider")
	}
}

func TestInitTracer_SetsGlobalPropagator(t *testing.T) {
	ctx := context.Background()

	tp, err := telemetry.InitTracer(ctx, "pallet-inventory-test", telemetry.ExporterStdout, "")
	if err != nil {
		t.Fatalf("InitTracer error = %v", err)
	}
	t.Cleanup(func() {
		if err := tp.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown error = %v", err)
		}
	})

	prop := otel.GetTextMapPropagator()
	if _, ok := prop.(propagation.TraceContext); ok {
		// Single TraceContext is fine but we expect a composite.
		return
	}
	// Composite propagator should have non-empty Fields().
	if len(prop.Fields()) == 0 {
		t.Error("global propagator has no fields, want TraceContext + Baggage fields")
	}
}

func TestInitMeter_Stdout(t *testing.T) {
	ctx := context.Background()

	mp, err := telemetry.InitMeter(ctx, "pallet-inventory-test", telemetry.ExporterStdout, "")
	if err != nil {
		t.Fatalf("InitMeter(stdout) error = %v", err)
	}
	t.Cleanup(func() {
		if err := mp.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown error = %v", err)
		}
	})

	if mp == nil {
		t.Fatal("InitMeter(stdout) returned nil MeterProvider")
	}
}

func TestInitMeter_OTLP(t *testing.T) {
	ctx := context.Background()

	mp, err := telemetry.InitMeter(ctx, "pallet-inventory-test", telemetry.ExporterOTLP, "http://localhost:4318")
	if err != nil {
		t.Fatalf("InitMeter(otlp) error = %v", err)
	}
	t.Cleanup(func() {
		// Shutdown may fail when no collector is running; this is expected in unit tests.
		_ = mp.Shutdown(ctx)
	})

	if mp == nil {
		t.Fatal("InitMeter(otlp) returned nil MeterProvider")
	}
}

func TestInit_RejectsBadExporterConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		exporter string
		endpoint string
	}{
		{name: "unknown exporter", exporter: "invalid"},
		{name: "empty exporter", exporter: ""},
		{name: "otlp without endpoint", exporter: telemetry.ExporterOTLP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			if _, err := telemetry.InitTracer(ctx, "pallet-inventory-test", tt.exporter, tt.endpoint); err == nil {
				t.Error("InitTracer error = nil, want error")
			}
			if _, err := telemetry.InitMeter(ctx, "pallet-inventory-test", tt.exporter, tt.endpoint); err == nil {
				t.Error("InitMeter error = nil, want error")
			}
		})
	}
}

func TestNewMetrics_RecordsInstruments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(ctx) })

	metrics, err := telemetry.NewMetrics(mp, "pallet-inventory-test")
	if err != nil {
		t.Fatalf("NewMetrics error = %v", err)
	}

	storeAttrs := metric.WithAttributes(
		telemetry.AttrStoreDriver.String("redis"),
		telemetry.AttrOperation.String("AddBox"),
		telemetry.AttrResult.String("success"),
	)
	metrics.StoreOperationTotal.Add(ctx, 1, storeAttrs)
	metrics.StoreOperationTotal.Add(ctx, 1, storeAttrs)
	metrics.StoreOperationDuration.Record(ctx, 0.002, storeAttrs)

	httpAttrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(http.MethodGet),
		telemetry.AttrHTTPRoute.String("/api/v1/pallets/{id}"),
		telemetry.AttrHTTPStatus.Int(http.StatusOK),
	)
	metrics.ServerRequestTotal.Add(ctx, 1, httpAttrs)
	metrics.ServerRequestDuration.Record(ctx, 0.01, httpAttrs)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect error = %v", err)
	}

	got := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != "pallet-inventory-test" {
			t.Errorf("scope = %q, want %q", sm.Scope.Name, "pallet-inventory-test")
		}
		for _, m := range sm.Metrics {
			got[m.Name] = m
		}
	}

	for _, name := range []string{
		"http.server.request.duration",
		"http.server.request.total",
		"inventory.store.operation.duration",
		"inventory.store.operation.total",
	} {
		if _, ok := got[name]; !ok {
			t.Errorf("metric %q not collected", name)
		}
	}

	sum, ok := got["inventory.store.operation.total"].Data.(metricdata.Sum[int64])
	if !ok || len(sum.DataPoints) != 1 {
		t.Fatalf("inventory.store.operation.total data = %#v, want one int64 sum point", got["inventory.store.operation.total"].Data)
	}
	if sum.DataPoints[0].Value != 2 {
		t.Errorf("store operation total = %d, want 2", sum.DataPoints[0].Value)
	}
	if v, _ := sum.DataPoints[0].Attributes.Value(telemetry.AttrOperation); v.AsString() != "AddBox" {
		t.Errorf("store.operation = %q, want %q", v.AsString(), "AddBox")
	}
}
