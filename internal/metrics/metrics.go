// Package metrics records run metrics for grinscan in a Prometheus registry.
// Nothing is served: a run can write the registry once, as a node_exporter
// textfile, when it finishes.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "grinscan"

// Metrics holds the Prometheus collectors of one run.
// It is passed explicitly to the components that record metrics.
// A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Extraction metrics
	linesTotal       *prometheus.CounterVec
	matchedTotal     *prometheus.CounterVec
	parsedTotal      *prometheus.CounterVec
	duplicatesTotal  *prometheus.CounterVec
	parseErrorsTotal *prometheus.CounterVec
	extractDuration  *prometheus.HistogramVec

	// Analysis metrics
	kernelsAttempted    *prometheus.GaugeVec
	kernelsDeanonymized *prometheus.GaugeVec
	analysisConverged   *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, a fresh registry is created so that runs in the same
// process never share counters.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		linesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "log_lines_total",
				Help:      "Total number of log lines read per source",
			},
			[]string{"source"},
		),
		matchedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "received_tx_lines_total",
				Help:      "Total number of received-tx lines per source",
			},
			[]string{"source"},
		),
		parsedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_parsed_total",
				Help:      "Total number of transactions parsed per source, duplicates included",
			},
			[]string{"source"},
		),
		duplicatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_duplicate_total",
				Help:      "Total number of parsed transactions already seen in the same source",
			},
			[]string{"source"},
		),
		parseErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parse_errors_total",
				Help:      "Total number of malformed received-tx lines per source",
			},
			[]string{"source"},
		),
		extractDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "extract_duration_seconds",
				Help:      "Duration of reading and parsing one source in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"source"},
		),

		kernelsAttempted: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "kernels_attempted",
				Help:      "Attempted kernels present in the analysed transactions",
			},
			[]string{"analysis"},
		),
		kernelsDeanonymized: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "kernels_deanonymized",
				Help:      "Attempted kernels attributed to a single transaction after each round",
			},
			[]string{"analysis", "round"},
		),
		analysisConverged: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "analysis_converged",
				Help:      "1 if the last elimination pass of the analysis attributed nothing new",
			},
			[]string{"analysis"},
		),
	}
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Extraction describes the outcome of reading one source.
type Extraction struct {
	Lines        int
	MatchedLines int
	Parsed       int
	Duplicates   int
	ParseErrors  int
	Seconds      float64
}

// RecordExtraction records the outcome of reading one source.
func (m *Metrics) RecordExtraction(source string, e Extraction) {
	if m == nil {
		return
	}
	m.linesTotal.WithLabelValues(source).Add(float64(e.Lines))
	m.matchedTotal.WithLabelValues(source).Add(float64(e.MatchedLines))
	m.parsedTotal.WithLabelValues(source).Add(float64(e.Parsed))
	m.duplicatesTotal.WithLabelValues(source).Add(float64(e.Duplicates))
	m.parseErrorsTotal.WithLabelValues(source).Add(float64(e.ParseErrors))
	m.extractDuration.WithLabelValues(source).Observe(e.Seconds)
}

// RecordAnalysis records the attempted kernel count and the deanonymized
// count after each round. Round 0 is the single-kernel round.
func (m *Metrics) RecordAnalysis(analysis string, attempted int, checkpoints []int, converged bool) {
	if m == nil {
		return
	}
	m.kernelsAttempted.WithLabelValues(analysis).Set(float64(attempted))
	for round, count := range checkpoints {
		m.kernelsDeanonymized.WithLabelValues(analysis, strconv.Itoa(round)).Set(float64(count))
	}
	value := 0.0
	if converged {
		value = 1
	}
	m.analysisConverged.WithLabelValues(analysis).Set(value)
}

// WriteTextfile writes the registry to path in the Prometheus text format.
// The file is written atomically, as node_exporter's textfile collector expects.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
