package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"deepseek-relay/internal/handlers"
	"deepseek-relay/internal/middleware"
)

func New(
	logger *zap.Logger,
	chatHandler *handlers.ChatHandler,
	modelHandler *handlers.ModelHandler,
	healthHandler *handlers.HealthHandler,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.CORS(middleware.OpenCORSConfig()))

	r.Post("/chat", chatHandler.SendMessage)

	r.Get("/models", modelHandler.List)
	r.Post("/change-model/{name}", modelHandler.Change)

	r.Get("/health", healthHandler.Health)
	r.Get("/test-connection", healthHandler.TestConnection)

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	return r
}
