package chatbot

import (
	"time"
)

type EventType string

const (
	EventMessage          EventType = "MESSAGE"
	EventAddedToSpace     EventType = "ADDED_TO_SPACE"
	EventRemovedFromSpace EventType = "REMOVED_FROM_SPACE"
	EventCardClicked      EventType = "CARD_CLICKED"
)

// Space is the conversation container an event originated in, either a
// multi-user ROOM or a one-on-one DM.
type Space struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Type        string `json:"type"`
}

type User struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type Thread struct {
	Name string `json:"name"`
}

type Message struct {
	Text   string  `json:"text"`
	Sender User    `json:"sender"`
	Thread *Thread `json:"thread,omitempty"`
	Space  *Space  `json:"space,omitempty"`
}

type ActionParameter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type FormAction struct {
	ActionMethodName string            `json:"actionMethodName"`
	Parameters       []ActionParameter `json:"parameters,omitempty"`
}

// ChatEvent is the canonical decoded inbound payload. It is constructed once
// per delivery and never mutated afterwards.
type ChatEvent struct {
	Type    EventType   `json:"type"`
	Space   Space       `json:"space"`
	User    User        `json:"user"`
	Message *Message    `json:"message,omitempty"`
	Action  *FormAction `json:"action,omitempty"`
}

// ThreadName returns the thread of the originating message, or "" when the
// reply should start a new top-level thread.
func (e ChatEvent) ThreadName() string {
	if e.Message != nil && e.Message.Thread != nil {
		return e.Message.Thread.Name
	}
	return ""
}

// SenderDisplayName prefers the message sender over the event user; card and
// membership events carry no message.
func (e ChatEvent) SenderDisplayName() string {
	if e.Message != nil && e.Message.Sender.DisplayName != "" {
		return e.Message.Sender.DisplayName
	}
	return e.User.DisplayName
}

// Reply is an outbound response. A non-empty Thread nests the reply under the
// originating sub-conversation.
type Reply struct {
	Text   string `json:"text"`
	Thread string `json:"thread,omitempty"`
}

// InteractionRecord is the normalized form of an event for the side-effect
// sinks. One record per event, fanned out to the ledger and the records
// topic.
type InteractionRecord struct {
	Timestamp        time.Time `json:"timestamp"`
	Sender           string    `json:"sender"`
	Text             *string   `json:"text"`
	SpaceDisplayName string    `json:"space_display_name"`
	EventType        string    `json:"event_type"`
	SpaceName        string    `json:"space_name"`
}

// NewInteractionRecord derives the record deterministically from the event.
func NewInteractionRecord(event ChatEvent, now time.Time) InteractionRecord {
	var text *string
	if event.Message != nil {
		t := event.Message.Text
		text = &t
	}

	return InteractionRecord{
		Timestamp:        now.UTC(),
		Sender:           event.SenderDisplayName(),
		Text:             text,
		SpaceDisplayName: event.Space.DisplayName,
		EventType:        string(event.Type),
		SpaceName:        event.Space.Name,
	}
}
