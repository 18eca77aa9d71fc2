package routes

import (
	"github.com/julienschmidt/httprouter"

	"vortex/checkout"
	"vortex/middleware"
	"vortex/ratelim"
)

func AddCheckoutRoutes(router *httprouter.Router, window *ratelim.Window, h *checkout.Handlers) {
	authed := middleware.Chain(middleware.Recover, window.Limit, middleware.Authenticate)

	router.POST("/api/v1/checkout/open", authed(h.OpenCheckout))
	router.GET("/api/v1/checkout", authed(h.GetCheckout))
	router.POST("/api/v1/checkout/customer", authed(h.SubmitCustomerData))
	router.POST("/api/v1/checkout/payment", authed(h.ConfirmPayment))
	router.POST("/api/v1/checkout/conclude", authed(h.ConcludeCheckout))
}
