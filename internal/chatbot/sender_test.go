package chatbot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"sesheta/internal/logger"
)

type fakeChatClient struct {
	err   error
	calls int
	space string
	reply Reply
}

func (f *fakeChatClient) CreateMessage(ctx context.Context, spaceName string, reply Reply) error {
	f.calls++
	f.space = spaceName
	f.reply = reply
	return f.err
}

func TestSendDeliversReply(t *testing.T) {
	client := &fakeChatClient{}
	s := NewSender(client, logger.NopLogger())

	err := s.Send(context.Background(), Reply{Text: "hi", Thread: "spaces/AAA/threads/T1"}, "spaces/AAA")

	assert.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "spaces/AAA", client.space)
	assert.Equal(t, "spaces/AAA/threads/T1", client.reply.Thread)
}

func TestSendReportsFailureWithoutRetry(t *testing.T) {
	client := &fakeChatClient{err: assert.AnError}
	s := NewSender(client, logger.NopLogger())

	err := s.Send(context.Background(), Reply{Text: "hi"}, "spaces/AAA")

	assert.Error(t, err)
	assert.Equal(t, 1, client.calls)
}
