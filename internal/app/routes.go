package app

import (
	"github.com/gorilla/mux"
	"language-enricher/internal/handlers"
	"language-enricher/internal/middleware"
)

// SetupRoutes configures all HTTP routes for the application
func SetupRoutes(router *mux.Router, h *handlers.Handlers) {
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware)

	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	api := router.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/events/process", h.ProcessEvent).Methods("POST")
}
