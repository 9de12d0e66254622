// Package metrics expone contadores Prometheus de las decisiones sobre el ledger.
package metrics

import (
	"time"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/prometheus/client_golang/prometheus"
)

var _ inventory.Metrics = (*InventoryMetrics)(nil)

// InventoryMetrics decisiones de documentos, cierres de tomas físicas, conflictos y duración
// de las transacciones que mutan el ledger.
type InventoryMetrics struct {
	documents   *prometheus.CounterVec
	stocktaking *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
	commit      *prometheus.HistogramVec
}

// NewInventoryMetrics registra las métricas en reg. Con reg nil devuelve una instancia inerte.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	m := &InventoryMetrics{
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_document_decisions_total",
			Help: "Decisiones sobre documentos de inventario por tipo y resultado.",
		}, []string{"type", "outcome"}),
		stocktaking: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stocktaking_sessions_finished_total",
			Help: "Tomas físicas confirmadas, canceladas o con confirmación fallida.",
		}, []string{"outcome"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_ledger_conflicts_total",
			Help: "Operaciones abortadas por contención de bloqueos en el ledger.",
		}, []string{"operation"}),
		commit: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stock_ledger_commit_duration_seconds",
			Help:    "Duración de aprobaciones y confirmaciones en segundos.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(m.documents, m.stocktaking, m.conflicts, m.commit)
	return m
}

func (m *InventoryMetrics) DocumentDecided(docType, outcome string) {
	if m == nil || m.documents == nil {
		return
	}
	m.documents.WithLabelValues(normalizeLabel(docType), normalizeLabel(outcome)).Inc()
	if outcome == "conflict" {
		m.conflicts.WithLabelValues("document_approve").Inc()
	}
}

func (m *InventoryMetrics) StocktakingFinished(outcome string) {
	if m == nil || m.stocktaking == nil {
		return
	}
	m.stocktaking.WithLabelValues(normalizeLabel(outcome)).Inc()
	if outcome == "conflict" {
		m.conflicts.WithLabelValues("stocktaking_confirm").Inc()
	}
}

func (m *InventoryMetrics) ObserveCommit(operation string, d time.Duration) {
	if m == nil || m.commit == nil {
		return
	}
	m.commit.WithLabelValues(normalizeLabel(operation)).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
