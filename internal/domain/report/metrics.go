package report

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Render outcomes recorded by Metrics.
const (
	OutcomeSuccess       = "success"
	OutcomeInvalidInput  = "invalid_input"
	OutcomeRenderFailure = "render_failure"
)

// Metrics tracks report generation.
type Metrics struct {
	renders  *prometheus.CounterVec
	duration prometheus.Histogram
	pages    prometheus.Histogram
}

// NewMetrics creates the report collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surveyfax",
			Subsystem: "report",
			Name:      "renders_total",
			Help:      "Report generations by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "surveyfax",
			Subsystem: "report",
			Name:      "render_duration_seconds",
			Help:      "Time spent parsing and drawing a report.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		pages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "surveyfax",
			Subsystem: "report",
			Name:      "pages",
			Help:      "Pages per rendered report.",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 12, 16, 24},
		}),
	}
	for _, c := range []prometheus.Collector{m.renders, m.duration, m.pages} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(outcome string, elapsed time.Duration, pages int) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
	if pages > 0 {
		m.pages.Observe(float64(pages))
	}
}
