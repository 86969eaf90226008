package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"appealbot/internal/entities"
	"appealbot/internal/infrastructure"
	"appealbot/internal/repository"
	"appealbot/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(limiter *infrastructure.MessageRateLimiter) (*gin.Engine, *repository.AppealManager) {
	gin.SetMode(gin.TestMode)

	appeals := repository.NewAppealManager()
	states := repository.NewConversationStore()
	composer := usecases.NewResponseComposer()
	engine := usecases.NewConversationEngine(usecases.NewIntentClassifier(usecases.DefaultIntentRules()), states, appeals, composer)

	r := gin.New()
	SetupRoutes(r, engine, nil, appeals, composer, limiter, nil, NewMiddleware("test-secret"))
	return r, appeals
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhook_ReturnsReply(t *testing.T) {
	r, _ := newTestRouter(nil)

	w := postJSON(r, "/webhook/message", `{"from":"+628123456789","text":"help me please"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		MessageID string `json:"message_id"`
		Reply     string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.MessageID)
	require.NotEmpty(t, resp.Reply)
}

func TestWebhook_InvalidSender(t *testing.T) {
	r, _ := newTestRouter(nil)

	w := postJSON(r, "/webhook/message", `{"from":"","text":"hi"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_RateLimited(t *testing.T) {
	r, _ := newTestRouter(infrastructure.NewMessageRateLimiter(0.01, 1))

	w := postJSON(r, "/webhook/message", `{"from":"spammer","text":"help"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(r, "/webhook/message", `{"from":"spammer","text":"help"}`)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Contains(t, w.Body.String(), "reply")
}

func TestWebhook_DrivesAppealCreation(t *testing.T) {
	r, appeals := newTestRouter(nil)

	for _, text := range []string{
		"I want to report a technical issue",
		"technical",
		"Login broken",
		"Cannot log in since yesterday",
	} {
		body, _ := json.Marshal(gin.H{"from": "081234567890", "text": text})
		w := postJSON(r, "/webhook/message", string(body))
		require.Equal(t, http.StatusOK, w.Code)
	}

	created := appeals.ListForSender("081234567890")
	require.Len(t, created, 1)
	require.Equal(t, "technical", created[0].Category)
}

func TestReviewRoutes_AbsentWithoutAuth(t *testing.T) {
	r, _ := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/appeals", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminHandler_ReviewFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := repository.NewAppealManager()
	appeal := manager.Create("sender", "billing", "S", "D", "normal")

	r := gin.New()
	h := NewAdminHandler(manager, manager)
	r.PUT("/appeals/:id/status", h.UpdateStatus)
	r.POST("/appeals/:id/close", h.CloseAppeal)
	r.GET("/appeals/:id", h.GetAppeal)

	w := postPut(r, "/appeals/"+appeal.ID+"/status", `{"status":"under_review","note":"taking a look"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// pending is not reachable from under_review
	w = postPut(r, "/appeals/"+appeal.ID+"/status", `{"status":"pending"}`)
	require.Equal(t, http.StatusConflict, w.Code)

	w = postPut(r, "/appeals/"+appeal.ID+"/status", `{"status":"approved"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(r, "/appeals/"+appeal.ID+"/close", `{"resolution":"refund issued"}`)
	require.Equal(t, http.StatusOK, w.Code)

	got, _ := manager.Get(appeal.ID)
	require.Equal(t, entities.StatusClosed, got.Status)
	require.Equal(t, "refund issued", got.Resolution)
}

func TestAdminHandler_Errors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := repository.NewAppealManager()
	appeal := manager.Create("sender", "billing", "S", "D", "normal")

	r := gin.New()
	h := NewAdminHandler(manager, manager)
	r.PUT("/appeals/:id/status", h.UpdateStatus)
	r.POST("/appeals/:id/close", h.CloseAppeal)

	w := postPut(r, "/appeals/APP-missing/status", `{"status":"under_review"}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = postPut(r, "/appeals/"+appeal.ID+"/status", `{"status":"bogus"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/appeals/"+appeal.ID+"/close", `{"resolution":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func postPut(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
