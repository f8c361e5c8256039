package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LinkClicks counts redirects through messaging links, by page section
	LinkClicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "landing_link_clicks_total",
			Help: "Number of messaging link clicks",
		},
		[]string{"section"},
	)

	// CouponsGenerated counts coupon codes handed out, by origin (redirect or api)
	CouponsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "landing_coupons_generated_total",
			Help: "Number of coupon codes generated",
		},
		[]string{"origin"},
	)

	// VisibilityEvaluations counts temporal element evaluations by outcome
	VisibilityEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "landing_visibility_evaluations_total",
			Help: "Temporal content evaluations by outcome (visible, hidden, invalid)",
		},
		[]string{"outcome"},
	)

	// RedirectDuration tracks the latency of click-time link rewriting
	RedirectDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "landing_redirect_duration_seconds",
			Help: "Duration of messaging link redirects in seconds",
			Buckets: []float64{
				0.0005, // 0.5ms
				0.001,  // 1ms
				0.005,  // 5ms
				0.01,   // 10ms
				0.05,   // 50ms
				0.1,    // 100ms
				0.5,    // 500ms
				1.0,    // 1s
			},
		},
		[]string{"status"}, // success or failure
	)
)

// RecordClick records a messaging link click from section
func RecordClick(section string) {
	LinkClicks.WithLabelValues(section).Inc()
}

// RecordCoupon records a generated coupon
func RecordCoupon(origin string) {
	CouponsGenerated.WithLabelValues(origin).Inc()
}

// RecordVisibility records one temporal evaluation outcome
func RecordVisibility(outcome string) {
	VisibilityEvaluations.WithLabelValues(outcome).Inc()
}

// RecordRedirectDuration records the duration of a redirect
func RecordRedirectDuration(status string, duration float64) {
	RedirectDuration.WithLabelValues(status).Observe(duration)
}
