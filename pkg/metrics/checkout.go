package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records fan-out behavior per checkout call.
type CheckoutMetrics struct {
	duration      *prometheus.HistogramVec
	ordersPerCall *prometheus.HistogramVec
	stepFailures  *prometheus.CounterVec
	success       prometheus.Counter
	failure       prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout fan-out calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	orders := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_orders_per_call",
		Help:    "Orders created per checkout call.",
		Buckets: []float64{1, 2, 3, 5, 8, 13},
	}, []string{"outcome"})
	stepFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_step_failures_total",
		Help: "Non-fatal step failures absorbed during fan-out.",
	}, []string{"step"})
	success := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_success_total",
		Help: "Successful checkout calls.",
	})
	failure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_failure_total",
		Help: "Failed checkout calls.",
	})
	reg.MustRegister(duration, orders, stepFailures, success, failure)
	return &CheckoutMetrics{
		duration:      duration,
		ordersPerCall: orders,
		stepFailures:  stepFailures,
		success:       success,
		failure:       failure,
	}
}

// ObserveCall records duration and order count for one checkout call.
func (c *CheckoutMetrics) ObserveCall(outcome string, orders int, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	label := normalizeLabel(outcome)
	c.duration.WithLabelValues(label).Observe(duration.Seconds())
	c.ordersPerCall.WithLabelValues(label).Observe(float64(orders))
	if label == "success" {
		c.success.Inc()
	} else {
		c.failure.Inc()
	}
}

// IncStepFailure counts an absorbed non-fatal step failure.
func (c *CheckoutMetrics) IncStepFailure(step string) {
	if c == nil || c.stepFailures == nil {
		return
	}
	c.stepFailures.WithLabelValues(normalizeLabel(step)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
