package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/mdotstrange/TabHoardersFriend/internal/httpserver/deps"
)

// No per-route timeout: the shim connection is long-lived.
func init() { Register(registerBridge) }

func registerBridge(r chi.Router, d deps.Deps) {
	r.Get("/api/bridge", d.Bridge.HandleWS)
}
