package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder exporta duração e contagem de consultas por backend,
// tipo de consulta e resultado.
type PrometheusRecorder struct {
	duration *prometheus.HistogramVec
	rows     *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

func NewPrometheusRecorder(registerer prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(registerer)

	return &PrometheusRecorder{
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orghierarchy_query_duration_seconds",
			Help:    "Wall-clock time of a hierarchy query",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}, []string{"backend", "kind"}),

		rows: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orghierarchy_query_rows",
			Help:    "Rows returned by a successful hierarchy query",
			Buckets: []float64{0, 1, 10, 100, 1000, 10000, 100000},
		}, []string{"backend", "kind"}),

		total: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orghierarchy_queries_total",
			Help: "Hierarchy queries by outcome",
		}, []string{"backend", "kind", "outcome"}),
	}
}

func (p *PrometheusRecorder) Observe(_ context.Context, observation QueryObservation) {
	backend, kind := string(observation.Backend), string(observation.Kind)

	p.total.WithLabelValues(backend, kind, observation.Outcome()).Inc()
	p.duration.WithLabelValues(backend, kind).Observe(observation.Duration.Seconds())

	if observation.Err == nil {
		p.rows.WithLabelValues(backend, kind).Observe(float64(observation.Rows))
	}
}
