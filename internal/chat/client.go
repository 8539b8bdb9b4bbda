package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sesheta/internal/chatbot"
	"sesheta/internal/config"
	"sesheta/internal/constants"
	"sesheta/internal/logger"
	"sesheta/pkg/errors"
)

// Client talks to the chat platform's REST API. It implements
// chatbot.ChatClient for the reply sender.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	log     logger.Logger
}

func NewClient(cfg config.ChatConfig, log logger.Logger) *Client {
	timeout := cfg.TimeoutSeconds * time.Second
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type messageBody struct {
	Text   string      `json:"text"`
	Thread *threadBody `json:"thread,omitempty"`
}

type threadBody struct {
	Name string `json:"name"`
}

// CreateMessage posts the reply into the space, nested under the thread when
// one is set.
func (c *Client) CreateMessage(ctx context.Context, spaceName string, reply chatbot.Reply) error {
	body := messageBody{Text: reply.Text}
	if reply.Thread != "" {
		body.Thread = &threadBody{Name: reply.Thread}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v1/%s/messages", c.baseURL, spaceName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return errors.ErrUpstreamUnavailable.WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.ErrUpstreamUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
		return errors.ErrUpstreamUnavailable.WithCause(
			fmt.Errorf("chat API returned status: %d", resp.StatusCode),
		)
	}

	return nil
}
