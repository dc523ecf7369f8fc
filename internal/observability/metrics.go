package observability

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secretroom_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "secretroom_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	databaseOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secretroom_database_ops_total",
			Help: "Total number of Realtime Database operations issued.",
		},
		[]string{"op"},
	)
	databaseOpErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secretroom_database_op_errors_total",
			Help: "Total number of failed Realtime Database operations.",
		},
		[]string{"op"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "secretroom_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		databaseOpsTotal,
		databaseOpErrorsTotal,
		wsActiveConnections,
	)
}

func DatabaseOp(op string) {
	databaseOpsTotal.WithLabelValues(op).Inc()
}

func DatabaseOpError(op string) {
	databaseOpErrorsTotal.WithLabelValues(op).Inc()
}

func WSConnected() {
	wsActiveConnections.Inc()
}

func WSDisconnected() {
	wsActiveConnections.Dec()
}

func HTTPMetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			status := c.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				}
			}

			httpRequestsTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler exposes the prometheus scrape endpoint as an echo handler.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
