package repository

import (
	"context"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	pkgkafka "StockPulse/pkg/kafka"
)

// KafkaPredictionPublisher emits served predictions as Kafka events keyed by
// symbol, so downstream consumers see one ordered stream per instrument.
type KafkaPredictionPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPredictionPublisher creates a Kafka publisher.
func NewKafkaPredictionPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPredictionPublisher{producer: producer, topic: topic}
}

func (p *KafkaPredictionPublisher) Publish(ctx context.Context, res *models.PredictionResult) error {
	return p.producer.Publish(ctx, p.topic, []byte(res.Symbol), map[string]interface{}{
		"symbol":        res.Symbol,
		"prediction":    string(res.Prediction),
		"confidence":    res.Confidence,
		"prob_up":       res.ProbUp,
		"prob_down":     res.ProbDown,
		"current_price": res.CurrentPrice,
		"model":         res.Model,
		"ts":            res.Timestamp.Unix(),
	})
}

func (p *KafkaPredictionPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
