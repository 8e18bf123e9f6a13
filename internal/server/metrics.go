package server

import (
	"strconv"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabmate_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tabmate_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	settlementsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabmate_settlements_recorded_total",
		Help: "Settlements recorded, by classification.",
	}, []string{"kind"})
)

// metricsMiddleware records per-request counters and latencies. The
// route pattern is used instead of the raw path to keep cardinality
// bounded.
func metricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		method := c.Method()
		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Response().StatusCode())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

// metricsHandler serves the Prometheus scrape endpoint.
func metricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

func observeSettlement(partial bool) {
	kind := "full"
	if partial {
		kind = "partial"
	}
	settlementsRecorded.WithLabelValues(kind).Inc()
}
