package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/api/handlers"
	custommiddleware "github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/api/middleware"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/config"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/service"
)

// Services bundles the service dependencies the router wires into handlers.
type Services struct {
	System      *service.SystemService
	Calculation *service.CalculationService
	Normalizer  *service.NormalizerService
	Export      *service.ExportService
	Catalog     *service.CatalogService
	Alternative *service.AlternativeService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/calculate", func(r chi.Router) {
			calculateHandler := handlers.NewCalculateHandler(svc.Calculation, svc.Normalizer, svc.Export)
			r.Post("/", calculateHandler.Calculate)
			r.Post("/csv", calculateHandler.CalculateCSV)
			r.Post("/export", calculateHandler.Export)
		})

		r.Route("/catalog", func(r chi.Router) {
			catalogHandler := handlers.NewCatalogHandler(svc.Catalog, svc.Alternative)
			r.Get("/", catalogHandler.Funds)
			r.Post("/", catalogHandler.CreateFund)

			r.Route("/{symbol}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateSymbolMiddleware)
				r.Get("/", catalogHandler.Fund)
				r.Put("/", catalogHandler.UpdateFund)
				r.Delete("/", catalogHandler.DeleteFund)
				r.Get("/alternatives", catalogHandler.Alternatives)
			})
		})

		similarityHandler := handlers.NewSimilarityHandler(svc.Catalog)
		r.Get("/similarity", similarityHandler.Score)
	})

	return r
}
