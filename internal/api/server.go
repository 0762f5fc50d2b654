package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/api/docs"
	historyapi "github.com/HIMASAKTA-DEV/project-wizard/internal/api/history"
	interviewapi "github.com/HIMASAKTA-DEV/project-wizard/internal/api/interview"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/api/middleware"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(interviewHandler *interviewapi.Handler, historyHandler *historyapi.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)   // Recover from panics
	r.Use(chimiddleware.RequestID)   // Add request ID
	r.Use(middleware.Logger(logger)) // Log requests
	r.Use(middleware.CORS)           // Handle CORS

	// The answer endpoint streams model fragments, so the request timeout
	// has to outlive a slow completion.
	r.Use(chimiddleware.Timeout(5 * time.Minute))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	interviewapi.RegisterRoutes(r, interviewHandler)
	historyapi.RegisterRoutes(r, historyHandler)

	return r
}
