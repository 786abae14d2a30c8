package repository

import (
	"context"

	"StockPulse/internal/domain/models"
)

// BarSource supplies the recent OHLCV history for a symbol. Gaps, missing
// sessions or short series are returned as-is; sufficiency is judged by the
// feature engine alone.
type BarSource interface {
	RecentBars(ctx context.Context, symbol string, days int) ([]models.Bar, error)
}

// PredictionStore appends successful predictions to an audit log.
type PredictionStore interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, r *models.PredictionResult) error
	Close() error
}

// Publisher emits prediction events for downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, r *models.PredictionResult) error
	Close() error
}

// Metrics records pipeline observability signals.
type Metrics interface {
	RecordPrediction(symbol string, direction string)
	RecordError(kind string)
	RecordStageLatency(stage string, seconds float64)
	RecordConfidence(symbol string, confidence float64)
}
