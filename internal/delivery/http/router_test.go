package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ganeshsaykara/email-wallet/internal/delivery/http/controllers"
	"github.com/Ganeshsaykara/email-wallet/internal/domain"
	"github.com/Ganeshsaykara/email-wallet/internal/metrics"
)

const storedID = "0b0f6c1e-8f55-4c1f-9a53-2f3c55e6f0a1"

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (string, error) {
	if token == "good" {
		return "relayer", nil
	}
	return "", errors.New("bad token")
}

type stubAuthService struct{}

func (stubAuthService) IssueToken(_ context.Context, clientID, apiKey string) (string, error) {
	if clientID == "relayer" && apiKey == "key" {
		return "good", nil
	}
	return "", domain.ErrInvalidCredentials
}

type stubNotificationService struct{}

func (stubNotificationService) Preview(_ context.Context, messageText, transactionHash string) (string, error) {
	return "<p>" + messageText + " " + transactionHash + "</p>", nil
}

func (stubNotificationService) Send(_ context.Context, data *domain.TransactionEmailData) (*domain.Notification, error) {
	return &domain.Notification{ID: storedID, Recipient: data.Recipient, Status: domain.NotificationSent}, nil
}

func (stubNotificationService) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	if id == storedID {
		return &domain.Notification{ID: id}, nil
	}
	return nil, domain.ErrNotFound
}

func (stubNotificationService) List(_ context.Context, _ domain.NotificationFilter) ([]*domain.Notification, int, error) {
	return nil, 0, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))
	return NewRouter(RouterConfig{
		Notifications:  controllers.NewNotificationController(logger, stubNotificationService{}),
		Auth:           controllers.NewAuthController(logger, stubAuthService{}),
		Verifier:       stubVerifier{},
		Logger:         logger,
		Gatherer:       reg,
		AllowedOrigins: []string{"https://dashboard.example"},
	})
}

func TestRouter(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		token      string
		wantStatus int
		wantBody   string
	}{
		{name: "healthz", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "token", method: http.MethodPost, path: "/auth/token", body: `{"client_id":"relayer","api_key":"key"}`, wantStatus: http.StatusOK, wantBody: `"token":"good"`},
		{name: "token bad key", method: http.MethodPost, path: "/auth/token", body: `{"client_id":"relayer","api_key":"nope"}`, wantStatus: http.StatusUnauthorized},
		{name: "preview requires auth", method: http.MethodPost, path: "/notifications/preview", body: `{}`, wantStatus: http.StatusUnauthorized},
		{name: "preview bad token", method: http.MethodPost, path: "/notifications/preview", body: `{}`, token: "bad", wantStatus: http.StatusUnauthorized},
		{name: "preview", method: http.MethodPost, path: "/notifications/preview", body: `{"message_text":"hi","transaction_hash":"0x1"}`, token: "good", wantStatus: http.StatusOK, wantBody: `hi 0x1`},
		{name: "send", method: http.MethodPost, path: "/notifications", body: `{"recipient":"a@example.com"}`, token: "good", wantStatus: http.StatusCreated},
		{name: "list", method: http.MethodGet, path: "/notifications", token: "good", wantStatus: http.StatusOK, wantBody: `"items":[]`},
		{name: "get", method: http.MethodGet, path: "/notifications/" + storedID, token: "good", wantStatus: http.StatusOK},
		{name: "get missing", method: http.MethodGet, path: "/notifications/5d1c3a52-7a0e-4a43-9b1f-5f0de0b6b9c2", token: "good", wantStatus: http.StatusNotFound},
		{name: "get malformed id", method: http.MethodGet, path: "/notifications/abc", token: "good", wantStatus: http.StatusNotFound, wantBody: `"not_found"`},
		{name: "wrong method", method: http.MethodDelete, path: "/notifications/" + storedID, token: "good", wantStatus: http.StatusMethodNotAllowed},
		{name: "unknown route", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `http_requests_total{method="GET",route="GET /healthz",status="200"}`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/notifications", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://dashboard.example", rr.Header().Get("Access-Control-Allow-Origin"))
}
