// Package clickstream publishes click events to Kafka for out-of-process
// recording. It is the alternative deployment of the recording path: the
// API stays write-light and the consumer binary owns persistence.
package clickstream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nexuslabs/nexus-shortener/internal/events"
	"github.com/nexuslabs/nexus-shortener/internal/infrastructure/logger"
	"github.com/nexuslabs/nexus-shortener/internal/shortener"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warn("failed to publish click events",
					zap.Error(err),
					zap.Int("count", len(messages)),
				)
			}
		},
	}

	return &Publisher{writer: writer}
}

// Record publishes one click. Async writer: the call buffers and returns;
// delivery failures are logged and dropped, matching the recording policy.
func (p *Publisher) Record(code string, at time.Time, visit shortener.Visit) {
	event := events.ClickRecorded{
		EventID:    uuid.New().String(),
		ShortCode:  code,
		OccurredAt: at.UTC().Format(time.RFC3339Nano),
		IPAddress:  visit.IPAddress,
		UserAgent:  visit.UserAgent,
		Referer:    visit.Referer,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Warn("failed to marshal click event", zap.Error(err), zap.String("code", code))
		return
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(context.Background(), carrier)
	headers := make([]kafka.Header, 0, len(carrier))
	for key, value := range carrier {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(value)})
	}

	msg := kafka.Message{
		// Keyed by code so per-code events stay on one partition.
		Key:     []byte(code),
		Value:   payload,
		Headers: headers,
		Time:    at.UTC(),
	}

	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		logger.Warn("failed to enqueue click event", zap.Error(err), zap.String("code", code))
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
