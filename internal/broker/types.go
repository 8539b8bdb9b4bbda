package broker

import (
	"context"

	"sesheta/internal/chatbot"
)

// EventHandler processes one decoded chat event from the subscription.
type EventHandler func(ctx context.Context, event chatbot.ChatEvent) error

type Producer interface {
	Publish(ctx context.Context, topic string, rec chatbot.InteractionRecord) error
	Close() error
}

type Consumer interface {
	Consume(ctx context.Context, topic string, handler EventHandler) error
	Close() error
}
