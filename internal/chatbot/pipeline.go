package chatbot

import (
	"context"
	"time"

	"sesheta/internal/logger"
	"sesheta/pkg/metrics"
)

// Pipeline runs the full reaction sequence for one inbound event:
// classify, generate a reply, deliver it, dispatch side effects.
//
// The sender is optional: push-mode deployments return the reply in the HTTP
// response instead of calling the chat API, pull-mode deployments wire a
// Sender. Both modes share everything else.
type Pipeline struct {
	classifier *Classifier
	answers    *AnswerGenerator
	dispatcher *Dispatcher
	sender     *Sender
	log        logger.Logger
	now        func() time.Time
}

func NewPipeline(classifier *Classifier, answers *AnswerGenerator, dispatcher *Dispatcher, sender *Sender, log logger.Logger) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		answers:    answers,
		dispatcher: dispatcher,
		sender:     sender,
		log:        log,
		now:        time.Now,
	}
}

// Process reacts to one event. It returns the reply (nil when the event
// warrants none) so push mode can render it into the HTTP response. The only
// errors are classification failures on required fields; those abort before
// any side effect. Side-effect failures are contained by the dispatcher and
// never surface here.
func (p *Pipeline) Process(ctx context.Context, event ChatEvent) (*Reply, error) {
	reaction, err := p.classifier.Classify(event)
	if err != nil {
		metrics.MalformedEventsTotal.Inc()
		p.log.WarnwCtx(ctx, "Dropping malformed event",
			"error", err,
			"type", string(event.Type),
		)
		return nil, err
	}

	var reply *Reply
	dispatch := true

	switch reaction.Kind {
	case ReactionIgnore:
		return nil, nil

	case ReactionCannedReply:
		reply = reaction.Reply
		metrics.IncReply("canned")

	case ReactionConsultAnswer:
		generated, proceed := p.answers.Generate(ctx, event)
		reply = &generated
		dispatch = proceed

	case ReactionLogOnly:
		// no reply, side effects only
	}

	if reply != nil {
		reply.Thread = event.ThreadName()
		if p.sender != nil {
			// Delivery is best-effort: the event is acknowledged either way.
			_ = p.sender.Send(ctx, *reply, event.Space.Name)
		}
	}

	if dispatch {
		p.dispatcher.Dispatch(ctx, NewInteractionRecord(event, p.now()))
	}

	return reply, nil
}
