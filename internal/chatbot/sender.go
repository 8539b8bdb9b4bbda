package chatbot

import (
	"context"

	"sesheta/internal/logger"
	"sesheta/pkg/metrics"
)

// ChatClient posts a message into a space on the chat platform.
type ChatClient interface {
	CreateMessage(ctx context.Context, spaceName string, reply Reply) error
}

// Sender delivers replies back to the originating conversation. A lost reply
// is preferable to a stuck or duplicated delivery, so failures are logged
// and the triggering event is still acknowledged.
type Sender struct {
	chat ChatClient
	log  logger.Logger
}

func NewSender(chat ChatClient, log logger.Logger) *Sender {
	return &Sender{
		chat: chat,
		log:  log,
	}
}

func (s *Sender) Send(ctx context.Context, reply Reply, spaceName string) error {
	if err := s.chat.CreateMessage(ctx, spaceName, reply); err != nil {
		metrics.IncReply("failed")
		s.log.ErrorwCtx(ctx, "Failed to send reply",
			"error", err,
			"space", spaceName,
		)
		return err
	}

	metrics.IncReply("sent")
	return nil
}
