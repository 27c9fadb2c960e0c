package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mdotstrange/TabHoardersFriend/internal/httpserver/deps"
	"github.com/mdotstrange/TabHoardersFriend/internal/httpserver/handlers"
)

func init() { Register(registerExport, middleware.Timeout(30*time.Second)) }

func registerExport(r chi.Router, d deps.Deps) {
	r.Post("/api/export/files", handlers.ExportFiles(d))
}
