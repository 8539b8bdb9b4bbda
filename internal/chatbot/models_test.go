package chatbot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInteractionRecord(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, loc)

	event := ChatEvent{
		Type:  EventMessage,
		Space: Space{Name: "spaces/AAA", DisplayName: "SIG ChatOps"},
		User:  User{DisplayName: "Fallback User"},
		Message: &Message{
			Text:   "a noteworthy fact",
			Sender: User{DisplayName: "Priya"},
		},
	}

	rec := NewInteractionRecord(event, now)

	assert.Equal(t, time.UTC, rec.Timestamp.Location())
	assert.True(t, rec.Timestamp.Equal(now))
	assert.Equal(t, "Priya", rec.Sender)
	require.NotNil(t, rec.Text)
	assert.Equal(t, "a noteworthy fact", *rec.Text)
	assert.Equal(t, "SIG ChatOps", rec.SpaceDisplayName)
	assert.Equal(t, "MESSAGE", rec.EventType)
	assert.Equal(t, "spaces/AAA", rec.SpaceName)
}

func TestNewInteractionRecordWithoutMessage(t *testing.T) {
	event := ChatEvent{
		Type:  EventAddedToSpace,
		Space: Space{Name: "spaces/BBB", DisplayName: "Ops Room"},
		User:  User{DisplayName: "Priya"},
	}

	rec := NewInteractionRecord(event, time.Now())

	assert.Nil(t, rec.Text)
	assert.Equal(t, "Priya", rec.Sender)
	assert.Equal(t, "ADDED_TO_SPACE", rec.EventType)
}

func TestThreadName(t *testing.T) {
	event := ChatEvent{Type: EventMessage}
	assert.Equal(t, "", event.ThreadName())

	event.Message = &Message{Thread: &Thread{Name: "spaces/AAA/threads/T1"}}
	assert.Equal(t, "spaces/AAA/threads/T1", event.ThreadName())
}

func TestSenderDisplayName(t *testing.T) {
	event := ChatEvent{User: User{DisplayName: "Event User"}}
	assert.Equal(t, "Event User", event.SenderDisplayName())

	event.Message = &Message{Sender: User{DisplayName: "Message Sender"}}
	assert.Equal(t, "Message Sender", event.SenderDisplayName())
}
