// Package metrics exposes command outcomes and the latest dashboard statistics
// to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"cafe/internal/core/domain/model/stats"
	"cafe/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns its own prometheus.Registry so tests and multiple servers do
// not collide on the default one.
type Registry struct {
	reg              *prometheus.Registry
	CommandOutcomes  *prometheus.CounterVec
	OrdersByStatus   *prometheus.GaugeVec
	OrdersByType     *prometheus.GaugeVec
	RevenueTotal     prometheus.Gauge
	AverageOrder     prometheus.Gauge
	SourceVersion    prometheus.Gauge
	RecomputeSeconds prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cafe_command_outcomes_total",
		Help: "Commands handled, by command and outcome kind.",
	}, []string{"command", "outcome"})
	byStatus := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "cafe_orders"}, []string{"status"})
	byType := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "cafe_orders_by_type"}, []string{"type"})
	revenue := prometheus.NewGauge(prometheus.GaugeOpts{Name: "cafe_revenue_total"})
	average := prometheus.NewGauge(prometheus.GaugeOpts{Name: "cafe_average_order_value"})
	version := prometheus.NewGauge(prometheus.GaugeOpts{Name: "cafe_stats_source_version"})
	recompute := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cafe_stats_recompute_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(outcomes, byStatus, byType, revenue, average, version, recompute)
	return &Registry{
		reg:              r,
		CommandOutcomes:  outcomes,
		OrdersByStatus:   byStatus,
		OrdersByType:     byType,
		RevenueTotal:     revenue,
		AverageOrder:     average,
		SourceVersion:    version,
		RecomputeSeconds: recompute,
	}
}

// RecordCommand counts one handled command. Successful commands are counted
// under outcome "ok", failures under their error kind.
func (r *Registry) RecordCommand(command string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(errs.KindOf(err))
	}
	r.CommandOutcomes.WithLabelValues(command, outcome).Inc()
}

func (r *Registry) RecordStats(s stats.AggregateStats) {
	for status, n := range s.CountsByStatus {
		r.OrdersByStatus.WithLabelValues(status.String()).Set(float64(n))
	}
	for t, n := range s.CountsByType {
		r.OrdersByType.WithLabelValues(t.String()).Set(float64(n))
	}
	r.RevenueTotal.Set(s.TotalRevenue.Amount().InexactFloat64())
	r.AverageOrder.Set(s.AverageOrderValue.Amount().InexactFloat64())
	r.SourceVersion.Set(float64(s.SourceVersion))
}

func (r *Registry) ObserveRecompute(elapsed time.Duration) {
	r.RecomputeSeconds.Observe(elapsed.Seconds())
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
