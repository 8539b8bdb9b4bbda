package broker

import (
	"context"
	"fmt"

	"sesheta/internal/chatbot"
	"sesheta/internal/config"
	"sesheta/internal/logger"
)

func NewProducer(cfg config.BrokerConfig, log logger.Logger) (Producer, error) {
	switch cfg.Type {
	case "kafka":
		return NewKafkaProducer(cfg.Kafka, log), nil
	default:
		return nil, fmt.Errorf("unknown broker type: %s", cfg.Type)
	}
}

func NewConsumer(cfg config.BrokerConfig, log logger.Logger) (Consumer, error) {
	switch cfg.Type {
	case "kafka":
		return NewKafkaConsumer(cfg.Kafka, log), nil
	default:
		return nil, fmt.Errorf("unknown broker type: %s", cfg.Type)
	}
}

// RecordPublisher binds a producer to the fixed records topic. It implements
// chatbot.QueueSink.
type RecordPublisher struct {
	producer Producer
	topic    string
}

func NewRecordPublisher(producer Producer, topic string) *RecordPublisher {
	return &RecordPublisher{
		producer: producer,
		topic:    topic,
	}
}

func (p *RecordPublisher) Publish(ctx context.Context, rec chatbot.InteractionRecord) error {
	return p.producer.Publish(ctx, p.topic, rec)
}
