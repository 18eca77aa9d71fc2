package routes

import (
	"github.com/julienschmidt/httprouter"

	"vortex/auth"
	"vortex/middleware"
	"vortex/ratelim"
)

func AddAuthRoutes(router *httprouter.Router, window *ratelim.Window, h *auth.Handlers) {
	router.POST("/api/v1/auth/signup",
		middleware.Chain(middleware.Recover, window.Limit)(h.Signup))
	router.POST("/api/v1/auth/signin",
		middleware.Chain(middleware.Recover, window.Limit)(h.Signin))
	router.POST("/api/v1/auth/signout",
		middleware.Chain(middleware.Recover, window.Limit)(h.Signout))
	router.GET("/api/v1/auth/profile",
		middleware.Chain(middleware.Recover, window.Limit)(h.Profile))
	router.PUT("/api/v1/auth/profile",
		middleware.Chain(middleware.Recover, window.Limit, middleware.Authenticate)(h.UpdateProfile))
}
