package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Ganeshsaykara/email-wallet/docs"
	"github.com/Ganeshsaykara/email-wallet/internal/delivery/http/controllers"
	"github.com/Ganeshsaykara/email-wallet/internal/delivery/http/middleware"
	"github.com/Ganeshsaykara/email-wallet/internal/domain"
)

// RouterConfig carries the dependencies NewRouter wires into the mux.
type RouterConfig struct {
	Notifications  *controllers.NotificationController
	Auth           *controllers.AuthController
	Verifier       domain.TokenVerifier
	Logger         *slog.Logger
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes and
// wraps it with metrics, CORS and request logging.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)

	// Auth
	mux.HandleFunc("POST /auth/token", cfg.Auth.IssueToken)

	// Notifications
	mux.HandleFunc("POST /notifications/preview", auth(cfg.Notifications.Preview))
	mux.HandleFunc("POST /notifications", auth(cfg.Notifications.Send))
	mux.HandleFunc("GET /notifications", auth(cfg.Notifications.List))
	mux.HandleFunc("GET /notifications/{id}", auth(cfg.Notifications.GetByID))

	// Operations
	mux.HandleFunc("GET /healthz", healthz)
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = middleware.Metrics(mux)
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	return middleware.LoggingMiddleware(cfg.Logger, handler)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
