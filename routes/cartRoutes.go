package routes

import (
	"github.com/julienschmidt/httprouter"

	"vortex/cart"
	"vortex/middleware"
	"vortex/ratelim"
)

func AddCartRoutes(router *httprouter.Router, window *ratelim.Window, h *cart.Handlers) {
	authed := middleware.Chain(middleware.Recover, window.Limit, middleware.Authenticate)

	router.GET("/api/v1/cart", authed(h.GetCart))
	router.POST("/api/v1/cart", authed(h.AddToCart))
	router.PUT("/api/v1/cart", authed(h.UpdateItem))
	router.DELETE("/api/v1/cart", authed(h.ClearCart))
}
