package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CommerceMetrics records pricing and cart activity.
type CommerceMetrics struct {
	quoteDuration   *prometheus.HistogramVec
	couponOutcomes  *prometheus.CounterVec
	cartMutations   *prometheus.CounterVec
	settingsFailure prometheus.Counter
}

// NewCommerceMetrics registers the storefront metrics on the provided registerer.
func NewCommerceMetrics(reg prometheus.Registerer) *CommerceMetrics {
	if reg == nil {
		return &CommerceMetrics{}
	}
	quoteDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_quote_duration_seconds",
		Help:    "Duration of cart price breakdown computations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"with_coupon"})
	couponOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coupon_apply_total",
		Help: "Coupon application attempts by outcome.",
	}, []string{"outcome"})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation and result.",
	}, []string{"operation", "result"})
	settingsFailure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "settings_fetch_failures_total",
		Help: "Merchant settings fetches that failed open to zero defaults.",
	})
	reg.MustRegister(quoteDuration, couponOutcomes, cartMutations, settingsFailure)
	return &CommerceMetrics{
		quoteDuration:   quoteDuration,
		couponOutcomes:  couponOutcomes,
		cartMutations:   cartMutations,
		settingsFailure: settingsFailure,
	}
}

// ObserveQuote records the duration of a breakdown computation.
func (m *CommerceMetrics) ObserveQuote(withCoupon bool, duration time.Duration) {
	if m == nil || m.quoteDuration == nil {
		return
	}
	label := "false"
	if withCoupon {
		label = "true"
	}
	m.quoteDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// IncCouponOutcome counts a coupon application attempt.
func (m *CommerceMetrics) IncCouponOutcome(outcome string) {
	if m == nil || m.couponOutcomes == nil {
		return
	}
	m.couponOutcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncCartMutation counts a cart mutation by operation and result.
func (m *CommerceMetrics) IncCartMutation(operation string, err error) {
	if m == nil || m.cartMutations == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.cartMutations.WithLabelValues(normalizeLabel(operation), result).Inc()
}

// IncSettingsFailure counts a fail-open settings fetch.
func (m *CommerceMetrics) IncSettingsFailure() {
	if m == nil || m.settingsFailure == nil {
		return
	}
	m.settingsFailure.Inc()
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return "unknown"
	}
	return strings.ReplaceAll(trimmed, " ", "_")
}
