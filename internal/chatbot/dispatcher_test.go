package chatbot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sesheta/internal/logger"
)

type fakeLedger struct {
	err   error
	calls int
	last  InteractionRecord
}

func (f *fakeLedger) Append(ctx context.Context, rec InteractionRecord) (int, error) {
	f.calls++
	f.last = rec
	if f.err != nil {
		return 0, f.err
	}
	return 6, nil
}

type fakeQueue struct {
	err   error
	calls int
	last  InteractionRecord
}

func (f *fakeQueue) Publish(ctx context.Context, rec InteractionRecord) error {
	f.calls++
	f.last = rec
	return f.err
}

func testRecord() InteractionRecord {
	text := "some fact"
	return InteractionRecord{
		Timestamp:        time.Now().UTC(),
		Sender:           "Priya",
		Text:             &text,
		SpaceDisplayName: "SIG ChatOps",
		EventType:        "MESSAGE",
		SpaceName:        "spaces/AAA",
	}
}

func TestDispatchBothSinksSucceed(t *testing.T) {
	ledger := &fakeLedger{}
	queue := &fakeQueue{}
	d := NewDispatcher(ledger, queue, logger.NopLogger())

	result := d.Dispatch(context.Background(), testRecord())

	assert.True(t, result.Ok())
	assert.Equal(t, 1, ledger.calls)
	assert.Equal(t, 1, queue.calls)
}

func TestDispatchLedgerFailureDoesNotBlockQueue(t *testing.T) {
	ledger := &fakeLedger{err: fmt.Errorf("connection reset")}
	queue := &fakeQueue{}
	d := NewDispatcher(ledger, queue, logger.NopLogger())

	result := d.Dispatch(context.Background(), testRecord())

	assert.False(t, result.Ok())
	assert.Error(t, result.LedgerErr)
	assert.NoError(t, result.QueueErr)
	assert.Equal(t, 1, queue.calls)
}

func TestDispatchQueueFailureDoesNotBlockLedger(t *testing.T) {
	ledger := &fakeLedger{}
	queue := &fakeQueue{err: fmt.Errorf("broker unreachable")}
	d := NewDispatcher(ledger, queue, logger.NopLogger())

	result := d.Dispatch(context.Background(), testRecord())

	assert.False(t, result.Ok())
	assert.NoError(t, result.LedgerErr)
	assert.Error(t, result.QueueErr)
	assert.Equal(t, 1, ledger.calls)
}

func TestDispatchNilSinksAreSkipped(t *testing.T) {
	d := NewDispatcher(nil, nil, logger.NopLogger())

	result := d.Dispatch(context.Background(), testRecord())

	assert.True(t, result.Ok())
}

func TestDispatchAtMostOncePerSink(t *testing.T) {
	ledger := &fakeLedger{err: fmt.Errorf("still failing")}
	queue := &fakeQueue{err: fmt.Errorf("still failing")}
	d := NewDispatcher(ledger, queue, logger.NopLogger())

	d.Dispatch(context.Background(), testRecord())

	assert.Equal(t, 1, ledger.calls)
	assert.Equal(t, 1, queue.calls)
}
