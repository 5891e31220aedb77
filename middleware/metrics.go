package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	operations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_operations_total",
			Help: "Total number of product, auth and order operations",
		},
		[]string{"operation", "status"},
	)
)

const unmatchedRoute = "unmatched"

// Metrics records request count and latency labelled by route pattern.
// Requests that match no route share one label.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// Ctx strings alias fasthttp buffers that are reused by later
		// requests; label values outlive the request.
		method := utils.CopyString(c.Method())
		path := routeLabel(c, err)
		status := strconv.Itoa(responseStatus(c, err))

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		return err
	}
}

func routeLabel(c *fiber.Ctx, err error) string {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code == fiber.StatusNotFound {
		return unmatchedRoute
	}
	path := c.Route().Path
	if path == "" {
		return unmatchedRoute
	}
	return utils.CopyString(path)
}

// RecordOperation counts a domain operation such as "product.create".
func RecordOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	operations.WithLabelValues(operation, status).Inc()
}
