package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CampaignMetrics records trade spend ledger outcomes.
type CampaignMetrics struct {
	spendRecorded *prometheus.CounterVec
	spendRejected *prometheus.CounterVec
	spendAmount   *prometheus.CounterVec
}

// NewCampaignMetrics registers the campaign metrics on the provided registerer.
func NewCampaignMetrics(reg prometheus.Registerer) *CampaignMetrics {
	if reg == nil {
		return &CampaignMetrics{}
	}
	spendRecorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trade_spend_recorded_total",
		Help: "Trade spend entries accepted into the ledger.",
	}, []string{"category"})
	spendRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trade_spend_rejected_total",
		Help: "Trade spend entries rejected.",
	}, []string{"reason"})
	spendAmount := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trade_spend_amount_total",
		Help: "Total trade spend amount recorded, by category.",
	}, []string{"category"})
	reg.MustRegister(spendRecorded, spendRejected, spendAmount)
	return &CampaignMetrics{
		spendRecorded: spendRecorded,
		spendRejected: spendRejected,
		spendAmount:   spendAmount,
	}
}

// IncSpendRecorded increments the accepted spend counter for the category.
func (c *CampaignMetrics) IncSpendRecorded(category string) {
	if c == nil || c.spendRecorded == nil {
		return
	}
	c.spendRecorded.WithLabelValues(normalizeLabel(category)).Inc()
}

// IncSpendRejected increments the rejected spend counter for the reason.
func (c *CampaignMetrics) IncSpendRejected(reason string) {
	if c == nil || c.spendRejected == nil {
		return
	}
	c.spendRejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// AddSpendAmount adds the accepted spend amount for the category.
func (c *CampaignMetrics) AddSpendAmount(category string, amount float64) {
	if c == nil || c.spendAmount == nil {
		return
	}
	c.spendAmount.WithLabelValues(normalizeLabel(category)).Add(amount)
}
