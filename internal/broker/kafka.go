package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"sesheta/internal/chatbot"
	"sesheta/internal/config"
	"sesheta/internal/constants"
	"sesheta/internal/logger"
	"sesheta/pkg/errors"
	"sesheta/pkg/logging"
	"sesheta/pkg/metrics"
	"sesheta/pkg/retry"
	"sesheta/pkg/tracing"
)

type KafkaProducer struct {
	writer *kafka.Writer
	logger logger.Logger
}

func NewKafkaProducer(cfg config.KafkaConfig, log logger.Logger) *KafkaProducer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: constants.KafkaBatchTimeout,
		WriteTimeout: constants.KafkaWriteTimeout,
		Async:        false,
	}
	return &KafkaProducer{writer: w, logger: log}
}

// Publish writes exactly one record per event. There is no retry queue and
// no buffering: a failed write is the caller's signal to log and move on.
func (p *KafkaProducer) Publish(ctx context.Context, topic string, rec chatbot.InteractionRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	headers := []kafka.Header{}
	headers = tracing.InjectTraceContext(ctx, headers)

	err = p.writer.WriteMessages(ctx,
		kafka.Message{
			Topic:   topic,
			Key:     []byte(rec.SpaceName),
			Value:   body,
			Headers: headers,
			Time:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to write kafka message: %w", err)
	}

	metrics.IncKafkaMessagesWritten(topic)
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// KafkaConsumer is the pull-mode subscription: a single worker that blocks
// on the next delivered event, runs the handler, and commits. The consumer
// group gets a per-process uuid suffix, so creating the subscription is
// idempotent across restarts and deployments.
type KafkaConsumer struct {
	cfg     config.KafkaConfig
	groupID string
	wg      sync.WaitGroup
	reader  *kafka.Reader
	logger  logger.Logger
}

func NewKafkaConsumer(cfg config.KafkaConfig, log logger.Logger) *KafkaConsumer {
	prefix := cfg.GroupIDPrefix
	if prefix == "" {
		prefix = constants.ConsumerGroupPrefix
	}

	return &KafkaConsumer{
		cfg:     cfg,
		groupID: prefix + uuid.New().String(),
		logger:  log,
	}
}

// Consume blocks until ctx is cancelled. Events are processed serially;
// every fetched message is committed after the handler returns, success or
// handled failure alike, so a poison message can never wedge the
// subscription.
func (c *KafkaConsumer) Consume(ctx context.Context, topic string, handler EventHandler) error {
	c.logger.Infow("Creating Kafka reader",
		"topic", topic,
		"brokers", c.cfg.Brokers,
		"group_id", c.groupID,
	)

	c.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:  c.cfg.Brokers,
		GroupID:  c.groupID,
		Topic:    topic,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.logger.InfowCtx(ctx, "Started consuming", "topic", topic)

		fetchBackoff := retry.ExponentialBackoff(time.Second, 30*time.Second, 2.0)

		for {
			m, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					c.logger.InfowCtx(ctx, "Stopped consuming",
						"topic", topic,
						"reason", "context canceled",
					)
					return
				}
				c.logger.ErrorwCtx(ctx, "Error fetching kafka message",
					"error", err,
					"topic", topic,
				)
				time.Sleep(fetchBackoff.NextBackOff())
				continue
			}
			fetchBackoff.Reset()
			metrics.IncKafkaMessagesRead(topic)

			var event chatbot.ChatEvent
			if err := json.Unmarshal(m.Value, &event); err != nil {
				// Undecodable payloads are committed to avoid a
				// poison-message retry loop.
				c.logger.ErrorwCtx(ctx, "Failed to decode chat event, dropping",
					"error", err,
					"topic", topic,
					"offset", m.Offset,
				)
				_ = c.reader.CommitMessages(ctx, m)
				continue
			}

			msgCtx, span := tracing.StartSpanFromKafkaMessage(ctx, "chat.event", m.Headers)
			msgCtx = logging.WithEventID(msgCtx, fmt.Sprintf("%s-%d-%d", topic, m.Partition, m.Offset))

			if err := c.runHandler(msgCtx, handler, event); err != nil {
				c.logger.WarnwCtx(msgCtx, "Event handler reported an error, acknowledging anyway",
					"error", err,
					"topic", topic,
				)
			}
			span.End()

			if err := c.reader.CommitMessages(ctx, m); err != nil {
				c.logger.ErrorwCtx(msgCtx, "Failed to commit message",
					"error", err,
					"topic", topic,
				)
			}
		}
	}()

	<-ctx.Done()
	return ctx.Err()
}

// runHandler contains handler panics so one bad event cannot take the
// subscription worker down.
func (c *KafkaConsumer) runHandler(ctx context.Context, handler EventHandler, event chatbot.ChatEvent) (err error) {
	defer func() {
		if recovered := errors.RecoverPanic(recover()); recovered != nil {
			err = recovered
		}
	}()
	return handler(ctx, event)
}

func (c *KafkaConsumer) Close() error {
	var err error
	if c.reader != nil {
		err = c.reader.Close()
	}
	c.wg.Wait()
	return err
}
