package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"discloser/internal/db"
)

var (
	resolvesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discloser_share_resolves_total",
			Help: "Total share link resolutions by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	linksCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discloser_share_links_created_total",
			Help: "Total share links created by kind",
		},
		[]string{"kind"},
	)

	storedLinksDesc = prometheus.NewDesc(
		"discloser_share_links_stored",
		"Share links currently stored, by kind",
		[]string{"kind"},
		nil,
	)
)

// Resolve outcome label values.
const (
	OutcomeValid     = "valid"
	OutcomeExpired   = "expired"
	OutcomeOverLimit = "over_limit"
	OutcomeNotFound  = "not_found"
	OutcomeError     = "error"
)

// LinkCollector is a custom Prometheus collector that reads stored link
// counts from the database on each scrape.
type LinkCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *LinkCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- storedLinksDesc
}

// Collect queries the database for link counts and emits them as gauges.
func (c *LinkCollector) Collect(ch chan<- prometheus.Metric) {
	counts, err := c.db.CountShareLinksByKind(context.Background())
	if err != nil {
		slog.Error("failed to collect share link metrics", "error", err)
		return
	}
	for kind, count := range counts {
		ch <- prometheus.MustNewConstMetric(
			storedLinksDesc,
			prometheus.GaugeValue,
			float64(count),
			kind,
		)
	}
}

var initOnce sync.Once

// Init registers the collectors. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(resolvesTotal, linksCreatedTotal)
		prometheus.MustRegister(&LinkCollector{db: database})
	})
}

// RecordResolve counts a resolution attempt outcome.
func RecordResolve(kind, outcome string) {
	resolvesTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordLinkCreated counts a created link.
func RecordLinkCreated(kind string) {
	linksCreatedTotal.WithLabelValues(kind).Inc()
}
