package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sesheta/internal/logger"
	"sesheta/pkg/errors"
)

func TestClassifyRemovedFromSpace(t *testing.T) {
	c := NewClassifier(logger.NopLogger())

	reaction, err := c.Classify(ChatEvent{
		Type:  EventRemovedFromSpace,
		Space: Space{Name: "spaces/AAA"},
	})

	require.NoError(t, err)
	assert.Equal(t, ReactionIgnore, reaction.Kind)
	assert.Nil(t, reaction.Reply)
}

func TestClassifyAddedToSpace(t *testing.T) {
	c := NewClassifier(logger.NopLogger())

	tests := []struct {
		name      string
		event     ChatEvent
		wantText  string
		wantError bool
	}{
		{
			name: "room greets by space display name",
			event: ChatEvent{
				Type:  EventAddedToSpace,
				Space: Space{Name: "spaces/AAA", DisplayName: "SIG ChatOps", Type: "ROOM"},
			},
			wantText: "Thanks for adding me to SIG ChatOps!",
		},
		{
			name: "dm greets by user display name",
			event: ChatEvent{
				Type:  EventAddedToSpace,
				Space: Space{Name: "spaces/BBB", Type: "DM"},
				User:  User{DisplayName: "Priya"},
			},
			wantText: "Thanks for having me in this one on one chat, Priya!",
		},
		{
			name: "missing space type fails closed",
			event: ChatEvent{
				Type:  EventAddedToSpace,
				Space: Space{Name: "spaces/CCC"},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reaction, err := c.Classify(tt.event)
			if tt.wantError {
				assert.Error(t, err)
				assert.True(t, errors.IsMalformedEvent(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ReactionCannedReply, reaction.Kind)
			require.NotNil(t, reaction.Reply)
			assert.Equal(t, tt.wantText, reaction.Reply.Text)
		})
	}
}

func TestClassifyMessage(t *testing.T) {
	c := NewClassifier(logger.NopLogger())

	tests := []struct {
		name      string
		event     ChatEvent
		wantKind  ReactionKind
		wantError bool
	}{
		{
			name: "ordinary message consults the answer generator",
			event: ChatEvent{
				Type: EventMessage,
				Message: &Message{
					Text:  "the meetup moved to Thursday",
					Space: &Space{Name: "spaces/AAA", Type: "ROOM"},
				},
			},
			wantKind: ReactionConsultAnswer,
		},
		{
			name: "slash command is recorded without a reply",
			event: ChatEvent{
				Type: EventMessage,
				Message: &Message{
					Text:  "/karma @priya",
					Space: &Space{Name: "spaces/AAA", Type: "ROOM"},
				},
			},
			wantKind: ReactionLogOnly,
		},
		{
			name: "slash command with leading whitespace",
			event: ChatEvent{
				Type: EventMessage,
				Message: &Message{
					Text:  "  /help",
					Space: &Space{Name: "spaces/AAA", Type: "DM"},
				},
			},
			wantKind: ReactionLogOnly,
		},
		{
			name: "missing message fails closed",
			event: ChatEvent{
				Type: EventMessage,
			},
			wantError: true,
		},
		{
			name: "missing message space type fails closed",
			event: ChatEvent{
				Type: EventMessage,
				Message: &Message{
					Text:  "hello",
					Space: &Space{Name: "spaces/AAA"},
				},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reaction, err := c.Classify(tt.event)
			if tt.wantError {
				assert.Error(t, err)
				assert.True(t, errors.IsMalformedEvent(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, reaction.Kind)
		})
	}
}

func TestClassifyCardClicked(t *testing.T) {
	c := NewClassifier(logger.NopLogger())

	reaction, err := c.Classify(ChatEvent{
		Type: EventCardClicked,
		Action: &FormAction{
			ActionMethodName: "upvote",
			Parameters:       []ActionParameter{{Key: "item", Value: "42"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, ReactionLogOnly, reaction.Kind)

	_, err = c.Classify(ChatEvent{Type: EventCardClicked})
	assert.Error(t, err)
	assert.True(t, errors.IsMalformedEvent(err))
}

func TestClassifyUnknownEventType(t *testing.T) {
	c := NewClassifier(logger.NopLogger())

	_, err := c.Classify(ChatEvent{Type: "SOMETHING_ELSE"})
	assert.Error(t, err)
	assert.True(t, errors.IsMalformedEvent(err))
}
