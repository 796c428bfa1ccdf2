package events

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"
)

// ProducerConfig holds kafka writer settings.
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// Producer writes change events to a single kafka topic. It is also the
// "kafka" startup dependency.
type Producer struct {
	writer *kafka.Writer
	config ProducerConfig
	logger ectologger.Logger
}

func NewProducer(config ProducerConfig, logger ectologger.Logger) (*Producer, error) {
	if len(config.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if config.Topic == "" {
		return nil, fmt.Errorf("a topic is required")
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = 10 * time.Second
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(config.Brokers...),
		Topic:                  config.Topic,
		Balancer:               &kafka.Hash{}, // events for one entity stay ordered
		WriteTimeout:           config.WriteTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		config: config,
		logger: logger,
	}, nil
}

func (p *Producer) GetName() string {
	return "kafka"
}

func (p *Producer) DependsOn() []string {
	return nil
}

// Start checks that at least one broker is reachable.
func (p *Producer) Start(ctx context.Context) error {
	var lastErr error
	for _, broker := range p.config.Brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		conn.Close()
		p.logger.Infof("Connected to Kafka broker %s", broker)
		return nil
	}
	return fmt.Errorf("no kafka broker reachable: %w", lastErr)
}

func (p *Producer) Stop(ctx context.Context) error {
	return p.Close()
}

func (p *Producer) Publish(ctx context.Context, key string, value []byte, headers map[string]string) error {
	kafkaHeaders := make([]kafka.Header, 0, len(headers))
	for k, v := range headers {
		kafkaHeaders = append(kafkaHeaders, kafka.Header{Key: k, Value: []byte(v)})
	}

	msg := kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: kafkaHeaders,
		Time:    time.Now().UTC(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close producer: %w", err)
	}
	p.logger.Info("Kafka producer closed")
	return nil
}
