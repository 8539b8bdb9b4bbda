package chatbot

import (
	"fmt"
	"strings"

	"sesheta/internal/constants"
	"sesheta/internal/logger"
	"sesheta/pkg/errors"
	"sesheta/pkg/metrics"
)

type ReactionKind int

const (
	// ReactionIgnore drops the event entirely: no reply, no side effects.
	ReactionIgnore ReactionKind = iota
	// ReactionCannedReply answers with a fixed template.
	ReactionCannedReply
	// ReactionConsultAnswer hands the message to the answer generator.
	ReactionConsultAnswer
	// ReactionLogOnly dispatches side effects without replying.
	ReactionLogOnly
)

// Reaction is the classifier's verdict on an inbound event.
type Reaction struct {
	Kind  ReactionKind
	Reply *Reply
}

type Classifier struct {
	log logger.Logger
}

func NewClassifier(log logger.Logger) *Classifier {
	return &Classifier{log: log}
}

// Classify inspects the event and decides the required reaction. A missing
// field that the event type depends on fails closed: the event is dropped
// before any side effect runs.
func (c *Classifier) Classify(event ChatEvent) (Reaction, error) {
	switch event.Type {
	case EventRemovedFromSpace:
		c.log.Infow("Bot removed from space", "space", event.Space.Name)
		return Reaction{Kind: ReactionIgnore}, nil

	case EventAddedToSpace:
		return c.classifyAddedToSpace(event)

	case EventMessage:
		return c.classifyMessage(event)

	case EventCardClicked:
		if event.Action == nil || event.Action.ActionMethodName == "" {
			return Reaction{}, errors.ErrMalformedEvent.WithDetail("missing", "action.actionMethodName")
		}
		c.log.Infow("Card clicked",
			"action", event.Action.ActionMethodName,
			"parameters", event.Action.Parameters,
		)
		return Reaction{Kind: ReactionLogOnly}, nil

	default:
		return Reaction{}, errors.ErrMalformedEvent.WithDetail("type", string(event.Type))
	}
}

func (c *Classifier) classifyAddedToSpace(event ChatEvent) (Reaction, error) {
	switch event.Space.Type {
	case constants.SpaceTypeRoom:
		return Reaction{
			Kind: ReactionCannedReply,
			Reply: &Reply{
				Text: fmt.Sprintf("Thanks for adding me to %s!", event.Space.DisplayName),
			},
		}, nil
	case constants.SpaceTypeDM:
		return Reaction{
			Kind: ReactionCannedReply,
			Reply: &Reply{
				Text: fmt.Sprintf("Thanks for having me in this one on one chat, %s!", event.User.DisplayName),
			},
		}, nil
	default:
		return Reaction{}, errors.ErrMalformedEvent.WithDetail("missing", "space.type")
	}
}

func (c *Classifier) classifyMessage(event ChatEvent) (Reaction, error) {
	if event.Message == nil || event.Message.Space == nil || event.Message.Space.Type == "" {
		return Reaction{}, errors.ErrMalformedEvent.WithDetail("missing", "message.space.type")
	}

	metrics.IncEvent(strings.ToLower(event.Message.Space.Type))

	// Slash commands are not information-bearing statements: record the
	// interaction but do not consult the intent service.
	if strings.HasPrefix(strings.TrimSpace(event.Message.Text), "/") {
		return Reaction{Kind: ReactionLogOnly}, nil
	}

	return Reaction{Kind: ReactionConsultAnswer}, nil
}
