package routes

import (
	"github.com/julienschmidt/httprouter"

	"vortex/middleware"
	"vortex/prefs"
	"vortex/ratelim"
)

func AddPrefsRoutes(router *httprouter.Router, window *ratelim.Window, h *prefs.Handlers) {
	authed := middleware.Chain(middleware.Recover, window.Limit, middleware.Authenticate)

	router.GET("/api/v1/preferences", authed(h.GetPreferences))
	router.PUT("/api/v1/preferences", authed(h.PutPreferences))
}
