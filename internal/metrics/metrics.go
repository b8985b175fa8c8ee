package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whb_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "whb_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PromptsGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whb_prompts_generated_total",
			Help: "Total number of image-to-prompt generations.",
		},
		[]string{"status"},
	)

	PromptsRefinedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whb_prompts_refined_total",
			Help: "Total number of prompt refinements.",
		},
		[]string{"status"},
	)

	ModelLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "whb_model_request_duration_seconds",
			Help:    "Upstream model request duration in seconds.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"operation"},
	)

	RateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "whb_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		PromptsGeneratedTotal,
		PromptsRefinedTotal,
		ModelLatency,
		RateLimitedTotal,
	)
}
