package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"language-enricher/internal/common/logging"
	"language-enricher/internal/handlers"
	"language-enricher/internal/server"
)

// Handler builds the HTTP handler serving the enricher
func (app *App) Handler() http.Handler {
	h := handlers.New(
		app.Enricher,
		logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "handlers"}),
		Version,
	)

	router := mux.NewRouter()
	SetupRoutes(router, h)
	return router
}

// RunServer creates the HTTP server with all handlers configured
func (app *App) RunServer() *server.Server {
	return server.New(app.Handler(), app.Config.Port)
}
