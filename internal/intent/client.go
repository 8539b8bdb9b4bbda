package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sesheta/internal/config"
	"sesheta/internal/constants"
	"sesheta/internal/logger"
	"sesheta/pkg/circuitbreaker"
	"sesheta/pkg/errors"
	"sesheta/pkg/metrics"
)

// Client queries the hosted intent-recognition service. The app id selects
// the published language-understanding app, the key authenticates.
type Client struct {
	endpoint string
	appID    string
	key      string
	client   *http.Client
	breaker  *circuitbreaker.Wrapper
	log      logger.Logger
}

func NewClient(cfg config.IntentConfig, breaker *circuitbreaker.Wrapper, log logger.Logger) *Client {
	timeout := cfg.TimeoutSeconds * time.Second
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}

	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		appID:    cfg.AppID,
		key:      cfg.Key,
		client:   &http.Client{Timeout: timeout},
		breaker:  breaker,
		log:      log,
	}
}

// Query asks for the top intent of an utterance. Every failure maps to
// UPSTREAM_UNAVAILABLE; the caller decides how to degrade.
func (c *Client) Query(ctx context.Context, utterance string) (QueryResult, error) {
	start := time.Now()

	var result QueryResult
	var err error
	if c.breaker != nil {
		_, err = c.breaker.ExecuteWithContext(ctx, func() (interface{}, error) {
			result, err = c.query(ctx, utterance)
			return nil, err
		})
	} else {
		result, err = c.query(ctx, utterance)
	}

	metrics.ObserveIntentRequestDuration(time.Since(start))
	if err != nil {
		metrics.IncIntentRequest("error")
		return QueryResult{}, err
	}

	metrics.IncIntentRequest("ok")
	return result, nil
}

func (c *Client) query(ctx context.Context, utterance string) (QueryResult, error) {
	reqURL := fmt.Sprintf("%s/luis/v2.0/apps/%s?%s",
		c.endpoint,
		url.PathEscape(c.appID),
		url.Values{
			"subscription-key": {c.key},
			"q":                {utterance},
		}.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return QueryResult{}, errors.ErrUpstreamUnavailable.WithCause(err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return QueryResult{}, errors.ErrUpstreamUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
		return QueryResult{}, errors.ErrUpstreamUnavailable.WithCause(
			fmt.Errorf("intent service returned status: %d", resp.StatusCode),
		)
	}

	var result QueryResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return QueryResult{}, errors.ErrUpstreamUnavailable.WithCause(err)
	}

	return result, nil
}
