package chatbot

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sesheta/internal/constants"
	"sesheta/internal/logger"
	"sesheta/pkg/metrics"
	"sesheta/pkg/middleware"
)

func newTestRouter(t *testing.T, querier IntentQuerier) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metrics.Register(constants.Version)

	log := logger.NopLogger()
	pipeline := newTestPipeline(querier, &fakeLedger{}, &fakeQueue{})

	router := gin.New()
	router.Use(middleware.VersionHeaderMiddleware(constants.Version))
	NewHandler(pipeline, log).RegisterRoutes(router)
	return router
}

func TestLandingPage(t *testing.T) {
	router := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sesheta")
	assert.Equal(t, "v"+constants.Version, w.Header().Get("X-Sesheta-Version"))
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sesheta_bot_info")
}

func TestBotEventRejectsNonPost(t *testing.T) {
	router := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bot", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Only POST allowed", w.Body.String())
}

func TestBotEventRejectsMalformedJSON(t *testing.T) {
	router := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bot", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "TRANSPORT_DECODE")
}

func TestBotEventAddedToSpaceRendersCard(t *testing.T) {
	router := newTestRouter(t, nil)

	body := `{
		"type": "ADDED_TO_SPACE",
		"space": {"name": "spaces/AAA", "displayName": "SIG ChatOps", "type": "ROOM"}
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bot", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cards")
	assert.Contains(t, w.Body.String(), "Thanks for adding me to SIG ChatOps!")
}

func TestBotEventMessageThreadedReply(t *testing.T) {
	router := newTestRouter(t, nil)

	body := `{
		"type": "MESSAGE",
		"space": {"name": "spaces/AAA", "displayName": "SIG ChatOps", "type": "ROOM"},
		"message": {
			"text": "hello",
			"sender": {"displayName": "Priya"},
			"thread": {"name": "spaces/AAA/threads/T1"},
			"space": {"name": "spaces/AAA", "type": "ROOM"}
		}
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bot", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "spaces/AAA/threads/T1")
}

func TestBotEventMalformedEventIsAcknowledged(t *testing.T) {
	router := newTestRouter(t, nil)

	body := `{"type": "SOMETHING_ELSE"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bot", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestBotEventRemovedFromSpaceAcknowledged(t *testing.T) {
	router := newTestRouter(t, nil)

	body := `{"type": "REMOVED_FROM_SPACE", "space": {"name": "spaces/AAA"}}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bot", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}
