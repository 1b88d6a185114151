package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/turkey-weather-etl/internal/config"
	"github.com/couchcryptid/turkey-weather-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// ReportPublisher produces one message per merge run to the report topic.
// It implements pipeline.ReportSink.
type ReportPublisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewReportPublisher creates a Kafka producer for the configured report topic.
func NewReportPublisher(cfg *config.Config, logger *slog.Logger) *ReportPublisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaReportTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &ReportPublisher{writer: w, logger: logger}
}

// PublishReport serializes the run report keyed by run ID.
func (p *ReportPublisher) PublishReport(ctx context.Context, report domain.RunReport) error {
	msg, err := serializeReport(report)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish run report %s: %w", report.RunID, err)
	}
	p.logger.Info("run report published", "topic", p.writer.Topic, "run_id", report.RunID)
	return nil
}

func (p *ReportPublisher) Close() error {
	return p.writer.Close()
}

// serializeReport marshals a RunReport into a Kafka message.
func serializeReport(report domain.RunReport) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize run report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(report.RunID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "output_path", Value: []byte(report.OutputPath)},
			{Key: "rows_written", Value: []byte(strconv.Itoa(report.RowsWritten))},
			{Key: "finished_at", Value: []byte(report.FinishedAt.Format(time.RFC3339))},
		},
	}, nil
}
