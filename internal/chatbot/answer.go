package chatbot

import (
	"context"
	"fmt"

	"sesheta/internal/intent"
	"sesheta/internal/logger"
)

// IntentQuerier is the narrow contract the generator needs from the
// intent-recognition service.
type IntentQuerier interface {
	Query(ctx context.Context, utterance string) (intent.QueryResult, error)
}

const (
	intentHelp    = "help"
	intentNote    = "takeNoteForNewsletter"
	intentWeather = "weather"

	// noteScoreThreshold is the confidence below which the bot asks the user
	// to rephrase instead of recording anything.
	noteScoreThreshold = 0.8

	urlEntityType = "builtin.url"
)

const (
	helpReplyText = "I collect interesting facts and links for the newsletter, just tell me about them! " +
		"For anything else, the humans hang out in the community chat: https://chat.openshift.io/"
	rephraseReplyText = "I am not sure I got that. Could you rephrase it for me, please?"
	weatherReplyText  = "I do not know anything about the weather, I only collect facts for the newsletter."
	fallbackReplyText = "Thanks for reaching out! I did not quite get that, but I have made a note of it."
)

// AnswerGenerator derives a reply for ordinary messages, consulting the
// intent service on a best-effort basis.
type AnswerGenerator struct {
	intents IntentQuerier
	log     logger.Logger
}

func NewAnswerGenerator(intents IntentQuerier, log logger.Logger) *AnswerGenerator {
	return &AnswerGenerator{
		intents: intents,
		log:     log,
	}
}

// Generate returns the reply for a message event and whether the pipeline
// should go on to dispatch side effects. Only a low-confidence newsletter
// note withholds side effects; a failing intent service degrades to the
// fallback reply and never aborts the pipeline.
func (g *AnswerGenerator) Generate(ctx context.Context, event ChatEvent) (Reply, bool) {
	if g.intents == nil || event.Message == nil {
		return Reply{Text: fallbackReplyText}, true
	}

	result, err := g.intents.Query(ctx, event.Message.Text)
	if err != nil {
		g.log.WarnwCtx(ctx, "Intent query failed, falling back to generic reply",
			"error", err,
		)
		return Reply{Text: fallbackReplyText}, true
	}

	switch result.TopIntent.Name {
	case intentHelp:
		return Reply{Text: helpReplyText}, true

	case intentNote:
		return g.noteReply(event, result)

	case intentWeather:
		return Reply{Text: weatherReplyText}, true

	default:
		return Reply{Text: fallbackReplyText}, true
	}
}

func (g *AnswerGenerator) noteReply(event ChatEvent, result intent.QueryResult) (Reply, bool) {
	if result.TopIntent.Score < noteScoreThreshold {
		return Reply{Text: rephraseReplyText}, false
	}

	if entity, ok := result.FirstEntity(urlEntityType); ok {
		return Reply{
			Text: fmt.Sprintf("Thanks for the link! I have noted %s, a human will review it for the newsletter.", entity.Value),
		}, true
	}

	return Reply{
		Text: fmt.Sprintf("Hey %s, thanks for the info, I have recorded that fact!", event.SenderDisplayName()),
	}, true
}
