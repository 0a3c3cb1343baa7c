package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	chatapi "github.com/homereno/journey-backend/internal/api/chat"
	"github.com/homereno/journey-backend/internal/api/docs"
	journeyapi "github.com/homereno/journey-backend/internal/api/journey"
	"github.com/homereno/journey-backend/internal/api/middleware"
	sessionapi "github.com/homereno/journey-backend/internal/api/session"
	userapi "github.com/homereno/journey-backend/internal/api/user"
	"github.com/homereno/journey-backend/internal/entity"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	userHandler *userapi.Handler,
	journeyHandler *journeyapi.Handler,
	chatHandler *chatapi.Handler,
	sessionHandler *sessionapi.Handler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                 // Recover from panics
	r.Use(chimiddleware.RequestID)                 // Add request ID
	r.Use(middleware.Logger(logger))               // Log requests
	r.Use(middleware.CORS)                         // Handle CORS
	r.Use(chimiddleware.Timeout(60 * time.Second)) // Default timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(entity.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
		})
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	userapi.RegisterRoutes(r, userHandler)
	journeyapi.RegisterRoutes(r, journeyHandler)
	chatapi.RegisterRoutes(r, chatHandler)
	sessionapi.RegisterRoutes(r, sessionHandler)

	return r
}
