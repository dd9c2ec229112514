package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Relayer mail metrics. Kept in a standalone package so services and the HTTP
// layer can record without importing each other.
var (
	EmailRenders = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "email_render_total",
		Help: "Transaction email renders by result (ok, config_error, io_error, template_error, error)",
	}, []string{"result"})

	EmailRenderDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "email_render_duration_seconds",
		Help:    "Time spent loading and rendering email.html",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	NotificationsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Transaction notifications by delivery status",
	}, []string{"status"})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route pattern and status code",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route pattern",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		EmailRenders,
		EmailRenderDuration,
		NotificationsSent,
		HTTPRequests,
		HTTPRequestDuration,
	}
}

// Register registers the relayer metrics on the given registry (or default if nil).
// Collectors that are already registered are skipped.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
		}
	}
	return nil
}
