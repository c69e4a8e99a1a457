package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/swim-comfort-etl/internal/config"
	"github.com/couchcryptid/swim-comfort-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer produces comfort scores to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes one message per score record in a single
// WriteMessages call. Records keyed by score time land on the same
// partition, so consumers see each hour's rescoring in order.
func (w *Writer) LoadBatch(ctx context.Context, records []domain.ScoreRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write comfort scores: %w", err)
	}
	w.logger.Debug("published comfort scores", "count", len(msgs), "run_id", records[0].RunID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ScoreRecord into a Kafka message.
func serializeToMessage(r domain.ScoreRecord) (kafkago.Message, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize comfort score: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(domain.ScoreKey(r)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "label", Value: []byte(r.Label)},
			{Key: "run_id", Value: []byte(r.RunID)},
			{Key: "computed_at", Value: []byte(r.ComputedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
