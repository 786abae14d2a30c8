package usecase

import (
	"context"
	"errors"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/features"
	"StockPulse/internal/registry"
	applogger "StockPulse/pkg/logger"
)

// Predictor composes the feature engine with the model registry to turn a
// symbol into a directional prediction. Each request is a synchronous,
// stateless pipeline: fetch -> feature computing -> model resolving ->
// inferring. Every failure is terminal and typed; retry policy belongs to
// the caller.
type Predictor struct {
	source    domrepo.BarSource
	registry  *registry.Registry
	store     domrepo.PredictionStore
	publisher domrepo.Publisher
	metrics   domrepo.Metrics
	l         *applogger.Logger
}

func NewPredictor(source domrepo.BarSource, reg *registry.Registry) *Predictor {
	return &Predictor{source: source, registry: reg}
}

// SetLogger injects a structured logger.
func (p *Predictor) SetLogger(l *applogger.Logger) { p.l = l }

// SetMetrics injects a pipeline metrics recorder.
func (p *Predictor) SetMetrics(m domrepo.Metrics) { p.metrics = m }

// SetAuditTrail wires optional best-effort persistence of successful
// predictions; failures there never affect the response.
func (p *Predictor) SetAuditTrail(store domrepo.PredictionStore, pub domrepo.Publisher) {
	p.store = store
	p.publisher = pub
}

// Predict produces the next-session directional prediction for a symbol
// from its recent daily history.
func (p *Predictor) Predict(ctx context.Context, symbol string, days int) (*models.PredictionResult, error) {
	bars, err := p.fetch(ctx, symbol, days)
	if err != nil {
		return nil, p.fail(err)
	}

	row, extRow, err := p.computeFeatures(symbol, bars)
	if err != nil {
		return nil, p.fail(err)
	}

	art, cand, err := p.resolve(ctx, symbol, extRow != nil)
	if err != nil {
		return nil, p.fail(err)
	}

	input := row
	if cand.Generation == features.GenerationExtended {
		input = *extRow
	}

	res, err := p.infer(symbol, input, art, cand, bars)
	if err != nil {
		return nil, p.fail(err)
	}

	if p.metrics != nil {
		p.metrics.RecordPrediction(symbol, string(res.Prediction))
		p.metrics.RecordConfidence(symbol, res.Confidence)
	}
	p.record(ctx, res)
	return res, nil
}

// ModelInfo resolves the artifact that would serve a symbol and reports its
// metadata without running the data pipeline.
func (p *Predictor) ModelInfo(ctx context.Context, symbol string) (*models.ModelInfo, error) {
	art, cand, err := p.registry.Resolve(ctx, p.registry.CandidatesFor(symbol))
	if err != nil {
		return nil, p.fail(err)
	}
	return &models.ModelInfo{
		Symbol:     symbol,
		Candidate:  cand.Name,
		Generation: cand.Generation.String(),
		NumInputs:  art.NumFeatures(),
		Labels:     art.Labels(),
		NumTrees:   art.NumTrees(),
	}, nil
}

func (p *Predictor) fetch(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	start := time.Now()
	defer p.observe(models.StageFetching, start)

	bars, err := p.source.RecentBars(ctx, symbol, days)
	if err != nil {
		var perr *models.PredictError
		if errors.As(err, &perr) {
			return nil, err
		}
		return nil, models.WrapPredictError(models.KindDataUnavailable, models.StageFetching, err,
			"no data for %s", symbol)
	}
	return bars, nil
}

// computeFeatures builds the canonical row and, when the history supports
// it, the extended row. The extended generation is a strict superset; when
// its extra columns cannot all be defined the caller falls back to the
// original candidate.
func (p *Predictor) computeFeatures(symbol string, bars []models.Bar) (models.FeatureRow, *models.FeatureRow, error) {
	start := time.Now()
	defer p.observe(models.StageFeatures, start)

	base := features.Compute(bars, features.GenerationOriginal)
	row, err := base.LatestComplete(symbol)
	if err != nil {
		return models.FeatureRow{}, nil, err
	}

	ext := features.Compute(bars, features.GenerationExtended)
	if extRow, extErr := ext.LatestComplete(symbol); extErr == nil {
		return row, &extRow, nil
	}
	if p.l != nil {
		p.l.Debug("extended feature set not computable, original only",
			applogger.String("symbol", symbol), applogger.Int("bars", len(bars)))
	}
	return row, nil, nil
}

func (p *Predictor) resolve(ctx context.Context, symbol string, extendedOK bool) (art artifact, cand registry.Candidate, err error) {
	start := time.Now()
	defer p.observe(models.StageResolving, start)

	candidates := p.registry.CandidatesFor(symbol)
	if !extendedOK {
		filtered := candidates[:0:0]
		for _, c := range candidates {
			if c.Generation != features.GenerationExtended {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
	}
	return p.registry.Resolve(ctx, candidates)
}

func (p *Predictor) infer(symbol string, row models.FeatureRow, art artifact, cand registry.Candidate, bars []models.Bar) (*models.PredictionResult, error) {
	start := time.Now()
	defer p.observe(models.StageInferring, start)

	if row.Len() != art.NumFeatures() {
		return nil, models.NewPredictError(models.KindFeatureMismatch, models.StageInferring,
			"feature vector has %d values but model %s expects %d", row.Len(), cand.Name, art.NumFeatures())
	}

	probs, err := art.Probabilities(row.Values)
	if err != nil {
		return nil, models.WrapPredictError(models.KindCorruptArtifact, models.StageInferring, err,
			"inference failed on model %s", cand.Name)
	}

	labels := art.Labels()
	best := 0
	for i := range probs {
		if probs[i] > probs[best] {
			best = i
		}
	}

	res := &models.PredictionResult{
		Symbol:       symbol,
		Prediction:   models.Direction(labels[best]),
		Confidence:   probs[best] * 100,
		CurrentPrice: models.LastClose(bars),
		Model:        cand.Name,
		Timestamp:    time.Now().UTC(),
	}
	for i, label := range labels {
		switch models.Direction(label) {
		case models.DirectionUp:
			res.ProbUp = probs[i] * 100
		case models.DirectionDown:
			res.ProbDown = probs[i] * 100
		}
	}
	return res, nil
}

// record appends the prediction to the audit trail, best-effort.
func (p *Predictor) record(ctx context.Context, res *models.PredictionResult) {
	if p.store != nil {
		if err := p.store.Store(ctx, res); err != nil && p.l != nil {
			p.l.Warn("prediction store error", applogger.Error(err))
		}
	}
	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, res); err != nil && p.l != nil {
			p.l.Warn("prediction publish error", applogger.Error(err))
		}
	}
}

func (p *Predictor) fail(err error) error {
	if p.metrics != nil {
		var perr *models.PredictError
		if errors.As(err, &perr) {
			p.metrics.RecordError(string(perr.Kind))
		} else {
			p.metrics.RecordError("unknown")
		}
	}
	return err
}

func (p *Predictor) observe(stage models.Stage, start time.Time) {
	if p.metrics != nil {
		p.metrics.RecordStageLatency(string(stage), time.Since(start).Seconds())
	}
}

// artifact is the slice of the mlmodel API the predictor needs.
type artifact interface {
	NumFeatures() int
	Labels() []string
	NumTrees() int
	Probabilities(x []float64) ([]float64, error)
}
