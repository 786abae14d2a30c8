package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	predictions  *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	stageLatency *prometheus.HistogramVec
	confidence   *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		predictions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_predictions_total",
				Help: "Total number of predictions served",
			},
			[]string{"symbol", "direction"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_errors_total",
				Help: "Total number of pipeline errors by kind",
			},
			[]string{"kind"},
		),
		stageLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpulse_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		confidence: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpulse_last_confidence",
				Help: "Confidence of the last prediction for a symbol",
			},
			[]string{"symbol"},
		),
	}
}

// RecordPrediction counts a served prediction by symbol and direction.
func (r *Recorder) RecordPrediction(symbol, direction string) {
	r.predictions.WithLabelValues(symbol, direction).Inc()
}

// RecordError counts a pipeline failure by error kind.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordStageLatency records stage latency in seconds.
func (r *Recorder) RecordStageLatency(stage string, seconds float64) {
	r.stageLatency.WithLabelValues(stage).Observe(seconds)
}

// RecordConfidence records the last confidence value for a symbol.
func (r *Recorder) RecordConfidence(symbol string, confidence float64) {
	r.confidence.WithLabelValues(symbol).Set(confidence)
}
