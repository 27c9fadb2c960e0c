package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mdotstrange/TabHoardersFriend/internal/httpserver/deps"
	"github.com/mdotstrange/TabHoardersFriend/internal/httpserver/handlers"
)

func init() { Register(registerSettings, middleware.Timeout(10*time.Second)) }

func registerSettings(r chi.Router, d deps.Deps) {
	r.Get("/api/settings/timer", handlers.GetTimerSetting(d))
	r.Put("/api/settings/timer", handlers.PutTimerSetting(d))
}
