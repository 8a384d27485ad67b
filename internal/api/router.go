package api

import (
	"net/http"

	"github.com/ecotrace/ecotrace-backend/internal/api/handlers"
	"github.com/ecotrace/ecotrace-backend/internal/api/middleware"
	"github.com/ecotrace/ecotrace-backend/internal/config"
	"github.com/ecotrace/ecotrace-backend/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	analyzeHandler := handlers.NewAnalyzeHandler(services.Analyzer, services.History)
	historyHandler := handlers.NewHistoryHandler(services.History)
	journeyHandler := handlers.NewJourneyHandler(services.Journey)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/token", authHandler.Token)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Get("/validate", authHandler.Validate)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/analyze", func(r chi.Router) {
				r.Post("/product", analyzeHandler.Product)
				r.Post("/barcode", analyzeHandler.Barcode)
			})

			r.Route("/history", func(r chi.Router) {
				r.Get("/", historyHandler.List)
				r.Post("/comparison", historyHandler.CreateComparison)
			})

			r.Get("/journey", journeyHandler.Get)
		})
	})

	return r
}
