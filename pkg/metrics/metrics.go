package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dataservice", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dataservice", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	DocumentsInserted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "dataservice", Name: "documents_inserted_total", Help: "Number of documents accepted by POST /data."},
	)
	InvalidPayloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dataservice", Name: "invalid_payloads_total", Help: "Number of rejected POST /data bodies by reason."},
		[]string{"reason"},
	)
	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dataservice", Name: "store_errors_total", Help: "Number of failed document store operations."},
		[]string{"op"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dataservice",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   []float64{0.01, 0.1, 0.3, 1.2, 5},
		},
		[]string{"path", "method", "status"},
	)
)

// RegisterCollectors registers the service collectors plus the Go runtime and
// process collectors. Registering twice is not an error.
func RegisterCollectors(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		RateLimitAllowed,
		RateLimitRejected,
		DocumentsInserted,
		InvalidPayloads,
		StoreErrors,
		RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}
