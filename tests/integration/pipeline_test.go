package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sesheta/internal/broker"
	"sesheta/internal/chatbot"
	"sesheta/internal/config"
	"sesheta/internal/ledger"
	"sesheta/internal/logger"
)

// Exercises the whole reaction path against real infrastructure: an event
// comes in, the reply is produced and the record lands in both sinks.
func TestPipelineFansOutToLedgerAndTopic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	infra := SetupTestInfra(t)
	createTopic(t, infra.KafkaBrokers[0], "chat-interactions-test")

	log := logger.NopLogger()
	repo := ledger.NewRepository(infra.PostgresDB)

	producer := broker.NewKafkaProducer(config.KafkaConfig{Brokers: infra.KafkaBrokers}, log)
	defer producer.Close()
	queue := broker.NewRecordPublisher(producer, "chat-interactions-test")

	pipeline := chatbot.NewPipeline(
		chatbot.NewClassifier(log),
		chatbot.NewAnswerGenerator(nil, log),
		chatbot.NewDispatcher(repo, queue, log),
		nil,
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reply, err := pipeline.Process(ctx, chatbot.ChatEvent{
		Type: chatbot.EventMessage,
		Message: &chatbot.Message{
			Text:   "the meetup moved to Thursday",
			Sender: chatbot.User{DisplayName: "Priya"},
			Space:  &chatbot.Space{Name: "spaces/AAA", Type: "ROOM"},
		},
		Space: chatbot.Space{Name: "spaces/AAA", DisplayName: "SIG ChatOps"},
	})
	require.NoError(t, err)
	require.NotNil(t, reply)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   infra.KafkaBrokers,
		Topic:     "chat-interactions-test",
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer reader.Close()

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)

	var rec chatbot.InteractionRecord
	require.NoError(t, json.Unmarshal(msg.Value, &rec))
	assert.Equal(t, "Priya", rec.Sender)
	assert.Equal(t, "MESSAGE", rec.EventType)
}
