package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PromotionMetrics records promotion application outcomes.
type PromotionMetrics struct {
	applied  *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewPromotionMetrics registers the promotion metrics on the provided registerer.
func NewPromotionMetrics(reg prometheus.Registerer) *PromotionMetrics {
	if reg == nil {
		return &PromotionMetrics{}
	}
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "promotion_applied_total",
		Help: "Promotions successfully applied to orders.",
	}, []string{"promotion_type"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "promotion_rejected_total",
		Help: "Promotion applications rejected.",
	}, []string{"reason"})
	reg.MustRegister(applied, rejected)
	return &PromotionMetrics{
		applied:  applied,
		rejected: rejected,
	}
}

// IncApplied increments the applied counter for the given promotion type.
func (p *PromotionMetrics) IncApplied(promotionType string) {
	if p == nil || p.applied == nil {
		return
	}
	p.applied.WithLabelValues(normalizeLabel(promotionType)).Inc()
}

// IncRejected increments the rejected counter for the given reason.
func (p *PromotionMetrics) IncRejected(reason string) {
	if p == nil || p.rejected == nil {
		return
	}
	p.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
