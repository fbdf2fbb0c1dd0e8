package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records cart and order activity.
type StorefrontMetrics struct {
	cartMutations   *prometheus.CounterVec
	persistFailures prometheus.Counter
	submissions     *prometheus.CounterVec
}

// Submission outcome labels.
const (
	SubmissionCommitted    = "committed"
	SubmissionHeaderFailed = "header_failed"
	SubmissionItemsFailed  = "items_failed"
	SubmissionRejected     = "rejected"
)

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart state transitions by operation.",
	}, []string{"op"})
	persistFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Best-effort cart snapshot writes that failed.",
	})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_submissions_total",
		Help: "Order submissions by terminal outcome.",
	}, []string{"outcome"})
	reg.MustRegister(cartMutations, persistFailures, submissions)
	return &StorefrontMetrics{
		cartMutations:   cartMutations,
		persistFailures: persistFailures,
		submissions:     submissions,
	}
}

// IncCartMutation counts one cart transition for the named operation.
func (m *StorefrontMetrics) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncPersistFailure counts one failed cart snapshot write.
func (m *StorefrontMetrics) IncPersistFailure() {
	if m == nil || m.persistFailures == nil {
		return
	}
	m.persistFailures.Inc()
}

// IncSubmission counts one order submission with its terminal outcome.
func (m *StorefrontMetrics) IncSubmission(outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
