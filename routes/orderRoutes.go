package routes

import (
	"github.com/julienschmidt/httprouter"

	"vortex/kv"
	"vortex/middleware"
	"vortex/orders"
	"vortex/ratelim"
)

func AddOrderRoutes(router *httprouter.Router, store kv.Store, window *ratelim.Window, h *orders.Handlers) {
	authed := middleware.Chain(middleware.Recover, window.Limit, middleware.Authenticate)
	admin := middleware.Chain(middleware.Recover, window.Limit, middleware.Authenticate, middleware.RequireAdmin)
	// A retried creation must not reserve stock twice.
	mutate := middleware.Chain(middleware.Recover, window.Limit, middleware.Authenticate, middleware.Idempotency(store))

	router.POST("/api/v1/orders", mutate(h.CreateOrder))
	router.GET("/api/v1/orders", authed(h.ListMyOrders))
	router.GET("/api/v1/orders/:id", authed(h.GetOrder))
	router.POST("/api/v1/orders/:id/cancel", authed(h.CancelOrder))

	router.GET("/api/v1/admin/orders", admin(h.ListAllOrders))
	router.PATCH("/api/v1/admin/orders/:id/status", admin(h.UpdateOrderStatus))
	router.PATCH("/api/v1/admin/orders/:id/payment-status", admin(h.UpdatePaymentStatus))
	router.GET("/api/v1/admin/statistics", admin(h.Statistics))
}
