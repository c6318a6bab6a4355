// Package kafka publishes order lifecycle events to the message bus.
package kafka

import (
	"context"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"
)

// Producer sends one message to the configured topic. Implementations are
// safe for concurrent use.
type Producer interface {
	SendMessage(ctx context.Context, key, value []byte) error
	Close() error
}

// WriterProducer is the real broker-backed producer.
type WriterProducer struct {
	writer *kafkago.Writer
}

// NewWriterProducer creates a producer writing to one topic on the broker.
func NewWriterProducer(broker, topic string) *WriterProducer {
	return &WriterProducer{
		writer: &kafkago.Writer{
			Addr:                   kafkago.TCP(broker),
			Topic:                  topic,
			Balancer:               &kafkago.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *WriterProducer) SendMessage(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx, kafkago.Message{Key: key, Value: value})
}

func (p *WriterProducer) Close() error {
	return p.writer.Close()
}

// ConsoleProducer logs messages instead of sending them. Used in local
// environments without a broker.
type ConsoleProducer struct {
	topic  string
	logger *slog.Logger
}

// NewConsoleProducer creates a producer that logs every message.
func NewConsoleProducer(topic string, logger *slog.Logger) *ConsoleProducer {
	return &ConsoleProducer{
		topic:  topic,
		logger: logger.With("component", "kafka_console"),
	}
}

func (p *ConsoleProducer) SendMessage(ctx context.Context, key, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.logger.Info("message published",
		"topic", p.topic, "key", string(key), "value", string(value))
	return nil
}

func (p *ConsoleProducer) Close() error {
	return nil
}
