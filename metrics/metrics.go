// Package metrics exposes bot counters through OpenTelemetry with a
// Prometheus exporter. Recording before InitMetrics is a no-op.
package metrics

import (
	"context"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelglobal "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const meterName = "StaffBot"

var (
	AttrStatus = attribute.Key("status")
	AttrResult = attribute.Key("result")
	AttrKind   = attribute.Key("kind")
)

var (
	initOnce          sync.Once
	registrations     metric.Int64Counter
	admissions        metric.Int64Counter
	broadcastMessages metric.Int64Counter
)

// InitMeterProvider installs the global MeterProvider and returns the
// handler serving /metrics.
func InitMeterProvider(ctx context.Context, serviceName string) (http.Handler, error) {
	if serviceName == "" {
		serviceName = "staffbot"
	}
	reg := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, err
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otelglobal.SetMeterProvider(provider)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}), nil
}

func Meter() metric.Meter {
	return otelglobal.Meter(meterName)
}

// Gauges reports values sampled on every scrape.
type Gauges struct {
	Attending  func() int64
	RosterSize func() int64
}

// InitMetrics creates the instruments. Only the first call has any effect.
func InitMetrics(ctx context.Context, gauges Gauges) error {
	var err error
	initOnce.Do(func() {
		m := Meter()
		registrations, err = m.Int64Counter("staffbot_registrations_total", metric.WithDescription("Completed registration attempts by status"))
		if err != nil {
			return
		}
		admissions, err = m.Int64Counter("staffbot_admissions_total", metric.WithDescription("Attendance requests by result"))
		if err != nil {
			return
		}
		broadcastMessages, err = m.Int64Counter("staffbot_broadcast_messages_total", metric.WithDescription("Broadcast deliveries by kind and status"))
		if err != nil {
			return
		}
		err = registerGauges(m, gauges)
	})
	return err
}

func registerGauges(m metric.Meter, gauges Gauges) error {
	attending, err := m.Int64ObservableGauge("staffbot_attending", metric.WithDescription("Workers signed up for the open request"))
	if err != nil {
		return err
	}
	rosterSize, err := m.Int64ObservableGauge("staffbot_roster_size", metric.WithDescription("Registered workers"))
	if err != nil {
		return err
	}
	_, err = m.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		if gauges.Attending != nil {
			o.ObserveInt64(attending, gauges.Attending())
		}
		if gauges.RosterSize != nil {
			o.ObserveInt64(rosterSize, gauges.RosterSize())
		}
		return nil
	}, attending, rosterSize)
	return err
}

// RecordRegistration counts a registration that reached the roster store.
func RecordRegistration(ctx context.Context, status string) {
	if registrations == nil {
		return
	}
	registrations.Add(ctx, 1, metric.WithAttributes(AttrStatus.String(status)))
}

// RecordAdmission counts one "I'm in" request by outcome.
func RecordAdmission(ctx context.Context, result string) {
	if admissions == nil {
		return
	}
	admissions.Add(ctx, 1, metric.WithAttributes(AttrResult.String(result)))
}

// RecordBroadcast counts delivered and failed messages of one fan-out.
func RecordBroadcast(ctx context.Context, kind string, sent, failed int) {
	if broadcastMessages == nil {
		return
	}
	if sent > 0 {
		broadcastMessages.Add(ctx, int64(sent), metric.WithAttributes(AttrKind.String(kind), AttrStatus.String("sent")))
	}
	if failed > 0 {
		broadcastMessages.Add(ctx, int64(failed), metric.WithAttributes(AttrKind.String(kind), AttrStatus.String("failed")))
	}
}
