//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/swim-comfort-etl/internal/adapter/kafka"
	"github.com/couchcryptid/swim-comfort-etl/internal/config"
	"github.com/couchcryptid/swim-comfort-etl/internal/domain"
	"github.com/couchcryptid/swim-comfort-etl/internal/observability"
	"github.com/couchcryptid/swim-comfort-etl/internal/pipeline"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSourceTopic = "test-conditions"
	testSinkTopic   = "test-scores"
)

// scoredMessage holds a deserialized message read from the sink topic.
type scoredMessage struct {
	Record  domain.ScoreRecord
	Key     string
	Headers map[string]string
}

// readScored reads a single message from the sink consumer and deserializes it.
func readScored(ctx context.Context, t *testing.T, consumer *kafkago.Reader) scoredMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var record domain.ScoreRecord
	require.NoError(t, json.Unmarshal(msg.Value, &record), "unmarshal sink message")

	return scoredMessage{
		Record:  record,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
		ScoreConcurrency:   4,
	}
}

func newSinkConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestPipelineEndToEnd wires the full pipeline (Reader → Transformer → Writer)
// with real Kafka and verifies every forecast hour of the mock batch is scored.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-pipeline")

	payload := loadMockBatch(t)
	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte("2025-07-15T06:45:00Z"),
		Value: payload,
	}))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	transformer := pipeline.NewTransformer(cfg.ScoreConcurrency, discardLogger(), metrics)
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := newSinkConsumer(t, broker)
	received := make([]scoredMessage, 0, 48)
	for len(received) < 48 {
		received = append(received, readScored(ctx, t, consumer))
	}

	pipelineCancel()
	require.NoError(t, <-errCh)
	require.NoError(t, p.CheckReadiness(ctx))

	runID := received[0].Headers["run_id"]
	_, err := uuid.Parse(runID)
	require.NoError(t, err, "run_id header should be a UUID")

	labels := map[string]int{}
	for i, sm := range received {
		labels[sm.Record.Label]++
		assert.Equal(t, sm.Record.ScoreTime.UTC().Format(time.RFC3339), sm.Key)
		assert.Equal(t, sm.Record.Label, sm.Headers["label"])
		assert.Equal(t, runID, sm.Headers["run_id"])
		_, err := time.Parse(time.RFC3339, sm.Headers["computed_at"])
		assert.NoError(t, err, "invalid computed_at format")

		// Single partition: hours arrive in forecast order.
		if i > 0 {
			assert.True(t, sm.Record.ScoreTime.After(received[i-1].Record.ScoreTime))
		}
		assert.Equal(t, domain.LabelForScore(sm.Record.Overall), sm.Record.Label)
		require.NotNil(t, sm.Record.ProjectedWaterTempF)
	}

	// The air quality spike late on the second day is capped.
	assert.LessOrEqual(t, received[40].Record.Overall, 40.0)
	assert.LessOrEqual(t, received[41].Record.Overall, 20.0)
	require.NotNil(t, received[41].Record.OverrideReason)
	assert.Equal(t, "Very unhealthy air quality (AQI 163)", *received[41].Record.OverrideReason)
}

// TestPipelineTransformError verifies that an invalid message (poison pill) is
// skipped and the pipeline continues processing valid messages.
func TestPipelineTransformError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-poison")

	hour := time.Date(2025, 7, 15, 20, 0, 0, 0, time.UTC)
	valid, err := json.Marshal(domain.ConditionsBatch{
		Observation: domain.Observation{WaterTempC: domain.Float(20)},
		Forecast:    []domain.ForecastHour{{Time: hour, FeelsLikeF: domain.Float(78)}},
	})
	require.NoError(t, err)
	unordered := []byte(`{"forecast":[{"time":"2025-07-15T21:00:00Z"},{"time":"2025-07-15T20:00:00Z"}]}`)

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("unordered"), Value: unordered},
		kafkago.Message{Key: []byte("good"), Value: valid},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	transformer := pipeline.NewTransformer(cfg.ScoreConcurrency, discardLogger(), metrics)
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	// Only the valid batch's single hour should appear on the sink topic.
	consumer := newSinkConsumer(t, broker)
	sm := readScored(ctx, t, consumer)
	assert.Equal(t, hour, sm.Record.ScoreTime.UTC())

	// Verify no second message arrives (the poison pills were skipped).
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err = consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}
