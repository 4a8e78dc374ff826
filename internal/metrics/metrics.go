// Package metrics exposes verse-selection telemetry as Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "versebot"

// Recorder implements ports.Recorder on Prometheus collectors.
type Recorder struct {
	repliesTotal     *prometheus.CounterVec
	embedFailures    *prometheus.CounterVec
	warmupSeconds    *prometheus.HistogramVec
	sessionsActive   prometheus.Gauge
	corpusVerses     prometheus.Gauge
	corpusLoadsTotal *prometheus.CounterVec
}

// New registers the collectors on reg. Passing prometheus.DefaultRegisterer
// exposes them through the default /metrics handler.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		// Labels: path (semantic, fallback)
		repliesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "selection",
			Name:      "replies_total",
			Help:      "Replies produced, by selection path",
		}, []string{"path"}),

		// Labels: stage (warmup, query)
		embedFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "failures_total",
			Help:      "Embedding failures that forced the random fallback",
		}, []string{"stage"}),

		// Labels: outcome (embedded, cached, failed)
		warmupSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "warmup_seconds",
			Help:      "Time to build a session's verse index",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"outcome"}),

		sessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Live chat sessions",
		}),

		corpusVerses: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "corpus",
			Name:      "verses",
			Help:      "Verses in the corpus used for new sessions",
		}),

		// Labels: fallback (true when the default verse replaced the source)
		corpusLoadsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "corpus",
			Name:      "loads_total",
			Help:      "Corpus loads, by whether the default verse was substituted",
		}, []string{"fallback"}),
	}
}

func (r *Recorder) ReplySelected(path string) {
	r.repliesTotal.WithLabelValues(path).Inc()
}

func (r *Recorder) EmbeddingFailed(stage string) {
	r.embedFailures.WithLabelValues(stage).Inc()
}

func (r *Recorder) WarmupFinished(outcome string, elapsed time.Duration) {
	r.warmupSeconds.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (r *Recorder) SessionsActive(n int) {
	r.sessionsActive.Set(float64(n))
}

func (r *Recorder) CorpusLoaded(size int, fallback bool) {
	r.corpusVerses.Set(float64(size))
	r.corpusLoadsTotal.WithLabelValues(strconv.FormatBool(fallback)).Inc()
}
