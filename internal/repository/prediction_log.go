package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	pkgch "StockPulse/pkg/clickhouse"
	applogger "StockPulse/pkg/logger"
)

// ClickHousePredictionLog appends every served prediction to an audit table.
// Writes are best-effort from the caller's point of view; the serving path
// never blocks on a failed insert.
type ClickHousePredictionLog struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

// NewClickHousePredictionLog creates the ClickHouse-backed prediction log.
func NewClickHousePredictionLog(ch *pkgch.Client, table string) *ClickHousePredictionLog {
	return &ClickHousePredictionLog{db: ch.DB(), table: table}
}

var _ repository.PredictionStore = (*ClickHousePredictionLog)(nil)

// SetLogger injects a structured logger.
func (s *ClickHousePredictionLog) SetLogger(l *applogger.Logger) { s.l = l }

// Init ensures the audit table exists (idempotent).
func (s *ClickHousePredictionLog) Init(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		ts DateTime,
		symbol String,
		prediction String,
		confidence Float64,
		prob_up Float64,
		prob_down Float64,
		current_price Float64,
		model String
	) ENGINE=MergeTree ORDER BY (symbol, ts)`, s.table)
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init prediction log: %w", err)
	}
	return nil
}

func (s *ClickHousePredictionLog) Store(ctx context.Context, p *models.PredictionResult) error {
	start := time.Now()
	q := fmt.Sprintf("INSERT INTO %s (ts, symbol, prediction, confidence, prob_up, prob_down, current_price, model) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		p.Timestamp,
		p.Symbol,
		string(p.Prediction),
		p.Confidence,
		p.ProbUp,
		p.ProbDown,
		p.CurrentPrice,
		p.Model,
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse prediction insert error",
				applogger.String("symbol", p.Symbol),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store prediction: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse prediction stored",
			applogger.String("symbol", p.Symbol),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *ClickHousePredictionLog) Close() error {
	return nil // pool is owned by pkg/clickhouse
}
