// Package metrics exports evaluation results as Prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	segsim "github.com/jamesainslie/go-segsim"
	"github.com/jamesainslie/go-segsim/boundary"
)

const namespace = "segsim"

// Metrics collects scoring metrics on its own registry. It implements
// segsim.Observer.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsScored    prometheus.Counter
	Edits              *prometheus.CounterVec
	DocumentSimilarity prometheus.Histogram
	CorpusSimilarity   *prometheus.GaugeVec
	CorpusDuration     prometheus.Histogram
}

var _ segsim.Observer = (*Metrics)(nil)

// New registers a fresh set of collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		DocumentsScored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_scored_total",
			Help:      "Total number of documents scored",
		}),
		Edits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edits_total",
			Help:      "Boundary pairs classified, by operation",
		}, []string{"op"}),
		DocumentSimilarity: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_similarity",
			Help:      "Distribution of per-document boundary similarity",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		CorpusSimilarity: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_similarity",
			Help:      "Weighted boundary similarity of the last evaluated corpus",
		}, []string{"policy", "window"}),
		CorpusDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "corpus_evaluation_seconds",
			Help:      "Time spent evaluating a corpus",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveDocument records one document score.
func (m *Metrics) ObserveDocument(_ string, score segsim.DocumentScore) {
	if m == nil {
		return
	}
	m.DocumentsScored.Inc()
	m.DocumentSimilarity.Observe(score.Float64())

	st := score.Statistics
	for _, op := range []boundary.Op{
		boundary.OpMatch, boundary.OpAddition, boundary.OpDeletion,
		boundary.OpSubstitution, boundary.OpTransposition,
	} {
		m.Edits.WithLabelValues(op.String()).Add(float64(st.Count(op)))
	}
}

// ObserveCorpus records a corpus result.
func (m *Metrics) ObserveCorpus(result *segsim.CorpusResult, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.CorpusSimilarity.WithLabelValues(result.Policy, strconv.Itoa(result.Window)).Set(result.Float64())
	m.CorpusDuration.Observe(elapsed.Seconds())
}

// WriteTextfile writes the current metric values in the text exposition
// format, for pickup by the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
