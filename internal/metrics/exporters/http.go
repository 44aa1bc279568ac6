// Package exporters provides HTTP and SSE exporters for metrics.
package exporters

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPHandler returns the Prometheus handler for all promauto-registered
// metrics.
func HTTPHandler() http.Handler {
	return promhttp.Handler()
}
