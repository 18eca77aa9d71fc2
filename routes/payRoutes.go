package routes

import (
	"github.com/julienschmidt/httprouter"

	"vortex/kv"
	"vortex/middleware"
	"vortex/pay"
	"vortex/ratelim"
)

func AddPayRoutes(router *httprouter.Router, store kv.Store, rateLimiter *ratelim.RateLimiter, window *ratelim.Window, h *pay.Handlers) {
	// Payment creation gets the tighter in-process limiter plus
	// idempotency-key replay protection.
	mutate := middleware.Chain(
		middleware.Recover,
		rateLimiter.Limit,
		window.Limit,
		middleware.Authenticate,
		middleware.Idempotency(store),
	)
	authed := middleware.Chain(middleware.Recover, window.Limit, middleware.Authenticate)

	router.POST("/api/v1/payments/process", mutate(h.Process))
	router.POST("/api/v1/payments/pix", mutate(h.GeneratePix))
	router.POST("/api/v1/payments/credit-card", mutate(h.ProcessCreditCard))
	router.POST("/api/v1/payments/boleto", mutate(h.GenerateBoleto))

	router.GET("/api/v1/payments/order/:orderId", authed(h.GetByOrder))
	router.POST("/api/v1/payments/pix/:id/confirm", authed(h.ConfirmPix))
	router.GET("/api/v1/payments/pix/:id/qr", authed(h.PixQRImage))
	router.GET("/api/v1/payments/boleto/:id/pdf", authed(h.BoletoPDF))
}
