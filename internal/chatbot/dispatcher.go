package chatbot

import (
	"context"

	"sesheta/internal/logger"
	"sesheta/pkg/metrics"
)

// LedgerSink appends the normalized record to the interaction ledger and
// reports how many cells were written.
type LedgerSink interface {
	Append(ctx context.Context, rec InteractionRecord) (int, error)
}

// QueueSink publishes the normalized record for downstream consumers.
type QueueSink interface {
	Publish(ctx context.Context, rec InteractionRecord) error
}

// DispatchResult reports each sink independently. A failed sink never blocks
// the other and never fails the pipeline.
type DispatchResult struct {
	LedgerErr error
	QueueErr  error
}

func (r DispatchResult) Ok() bool {
	return r.LedgerErr == nil && r.QueueErr == nil
}

// Dispatcher fans one record out to the two best-effort sinks. Sinks are
// injected at construction so tests can substitute fakes.
type Dispatcher struct {
	ledger LedgerSink
	queue  QueueSink
	log    logger.Logger
}

func NewDispatcher(ledger LedgerSink, queue QueueSink, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		ledger: ledger,
		queue:  queue,
		log:    log,
	}
}

// Dispatch attempts both sinks regardless of individual outcomes. At most
// once per sink: failures are logged and counted, never retried.
func (d *Dispatcher) Dispatch(ctx context.Context, rec InteractionRecord) DispatchResult {
	var result DispatchResult

	if d.ledger != nil {
		cells, err := d.ledger.Append(ctx, rec)
		if err != nil {
			result.LedgerErr = err
			metrics.IncSideEffect("ledger", "error")
			d.log.ErrorwCtx(ctx, "Ledger append failed",
				"error", err,
				"space", rec.SpaceName,
			)
		} else {
			metrics.IncSideEffect("ledger", "ok")
			d.log.DebugwCtx(ctx, "Ledger row appended", "cells", cells)
		}
	}

	if d.queue != nil {
		if err := d.queue.Publish(ctx, rec); err != nil {
			result.QueueErr = err
			metrics.IncSideEffect("queue", "error")
			d.log.ErrorwCtx(ctx, "Record publish failed",
				"error", err,
				"space", rec.SpaceName,
			)
		} else {
			metrics.IncSideEffect("queue", "ok")
		}
	}

	return result
}
