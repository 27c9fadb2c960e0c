package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mdotstrange/TabHoardersFriend/internal/httpserver/deps"
	"github.com/mdotstrange/TabHoardersFriend/internal/httpserver/handlers"
)

func init() { Register(registerNames, middleware.Timeout(10*time.Second)) }

func registerNames(r chi.Router, d deps.Deps) {
	r.Get("/api/tabs/names", handlers.ListTabNames(d))
	r.Get("/api/tabs/{tabID}/name", handlers.GetTabName(d))
	r.Put("/api/tabs/{tabID}/name", handlers.PutTabName(d))
	r.Delete("/api/tabs/{tabID}/name", handlers.DeleteTabName(d))
}
