package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/covid-tracker-service/internal/config"
	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// nationalKey stands in for the empty region code in message keys.
const nationalKey = "US"

// Writer produces normalized records to a Kafka topic.
// It implements dashboard.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes records in a single WriteMessages call.
// Records sharing a region hash to the same partition, keeping each region's
// days in order for consumers.
func (w *Writer) Publish(ctx context.Context, refreshID string, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(refreshID, records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d records: %w", len(msgs), err)
	}
	w.logger.Debug("records published", "topic", w.writer.Topic, "count", len(msgs), "refresh_id", refreshID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Record into a Kafka message keyed by region.
func serializeToMessage(refreshID string, record domain.Record) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record: %w", err)
	}
	region := record.Region
	if region == "" {
		region = nationalKey
	}
	return kafkago.Message{
		Key:   []byte(region + ":" + record.Date.Format("2006-01-02")),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "region", Value: []byte(region)},
			{Key: "refresh_id", Value: []byte(refreshID)},
		},
	}, nil
}
