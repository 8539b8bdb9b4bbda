package chatbot

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sesheta/internal/logger"
	"sesheta/pkg/errors"
)

const landingPage = "Hi, I am Sesheta. I collect facts for the newsletter and track your karma.\n"

// Handler is the push-mode ingress: one JSON chat event per POST, processed
// synchronously, the reply rendered into the HTTP response as a card.
type Handler struct {
	pipeline *Pipeline
	log      logger.Logger
}

func NewHandler(pipeline *Pipeline, log logger.Logger) *Handler {
	return &Handler{
		pipeline: pipeline,
		log:      log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.Landing)
	router.Any("/bot", h.BotEvent)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (h *Handler) Landing(c *gin.Context) {
	c.String(http.StatusOK, landingPage)
}

func (h *Handler) BotEvent(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.String(http.StatusMethodNotAllowed, "Only POST allowed")
		return
	}

	var event ChatEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		decodeErr := errors.ErrTransportDecode.WithCause(err)
		c.JSON(errors.ToHTTPStatus(decodeErr), errors.ToErrorResponse(decodeErr))
		return
	}

	reply, err := h.pipeline.Process(c.Request.Context(), event)
	if err != nil {
		// Malformed events are dropped silently: the caller gets an
		// acknowledgement, never internal detail.
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}

	if reply == nil {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	c.JSON(http.StatusOK, renderCard(*reply))
}

// renderCard wraps the reply in the minimal card shape the chat platform
// accepts as a synchronous bot response.
func renderCard(reply Reply) gin.H {
	card := gin.H{
		"cards": []gin.H{
			{
				"sections": []gin.H{
					{
						"widgets": []gin.H{
							{"textParagraph": gin.H{"text": reply.Text}},
						},
					},
				},
			},
		},
	}

	if reply.Thread != "" {
		card["thread"] = gin.H{"name": reply.Thread}
	}

	return card
}
