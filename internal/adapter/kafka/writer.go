package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/cross-domain-correlator/internal/config"
	"github.com/couchcryptid/cross-domain-correlator/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces snapshot change events to a Kafka topic.
// It implements pipeline.SnapshotPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSnapshotTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSnapshot serializes the event and writes it keyed by dataset, so all
// snapshots of one dataset land on the same partition in order.
func (w *Writer) PublishSnapshot(ctx context.Context, event domain.SnapshotEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s snapshot: %w", event.Dataset, err)
	}
	w.logger.Debug("snapshot published",
		"dataset", event.Dataset,
		"records", event.RecordCount,
	)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a SnapshotEvent into a Kafka message.
func serializeToMessage(event domain.SnapshotEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Dataset),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "dataset", Value: []byte(event.Dataset)},
			{Key: "record_count", Value: []byte(strconv.Itoa(event.RecordCount))},
			{Key: "stored_at", Value: []byte(event.StoredAt.Format(time.RFC3339))},
		},
	}, nil
}
