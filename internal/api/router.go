package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ramonehamilton/mtg-inventory/internal/api/handlers"
	"github.com/ramonehamilton/mtg-inventory/internal/api/response"
	"github.com/ramonehamilton/mtg-inventory/internal/version"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	if s.services.Gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.services.Gatherer, promhttp.HandlerOpts{}))
	}

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Edition routes; POST runs the catalog import
		editionHandler := handlers.NewEditionHandler(s.services.Editions)
		r.Route("/editions", func(r chi.Router) {
			r.Get("/", editionHandler.ListEditions)
			r.Post("/", editionHandler.CreateEdition)
			r.Get("/{code}", editionHandler.GetEdition)
			r.Put("/{code}", editionHandler.RenameEdition)
			r.Delete("/{code}", editionHandler.DeleteEdition)
		})

		// Card routes
		cardHandler := handlers.NewCardHandler(s.services.Cards)
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", cardHandler.ListCards)
			r.Get("/{cardID}", cardHandler.GetCard)
			r.Delete("/{cardID}", cardHandler.DeleteCard)
		})

		// Reference data
		r.Get("/colors", cardHandler.GetColors)
		r.Get("/formats", cardHandler.GetFormats)
		r.Get("/rarities", cardHandler.GetRarities)
		r.Get("/artists", cardHandler.GetArtists)

		// User and owned copy routes
		collectionHandler := handlers.NewCollectionHandler(s.services.Collection)
		r.Route("/users", func(r chi.Router) {
			r.Post("/", collectionHandler.CreateUser)
			r.Delete("/{userID}", collectionHandler.DeleteUser)
			r.Get("/{userID}/instances", collectionHandler.GetInstances)
			r.Post("/{userID}/instances", collectionHandler.AddInstance)
			r.Get("/{userID}/instances/export", collectionHandler.ExportInstances)
		})
		r.Delete("/instances/{instanceID}", collectionHandler.RemoveInstance)

		if s.services.Stats != nil {
			statsHandler := handlers.NewStatsHandler(s.services.Stats)
			r.Get("/stats/import", statsHandler.GetImportStats)
		}
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	if s.services.Ping != nil {
		if err := s.services.Ping(r.Context()); err != nil {
			response.ServiceUnavailable(w, err)
			return
		}
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "mtg-inventory-api",
		"version": version.GetVersion(),
	})
}
