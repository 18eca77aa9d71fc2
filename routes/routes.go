package routes

import (
	"time"

	"github.com/julienschmidt/httprouter"

	"vortex/auth"
	"vortex/cart"
	"vortex/cep"
	"vortex/checkout"
	"vortex/emailer"
	"vortex/globals"
	"vortex/kv"
	"vortex/orders"
	"vortex/pay"
	"vortex/prefs"
	"vortex/products"
	"vortex/ratelim"
)

// RoutesWrapper builds the service graph on top of the shared store and
// registers every route group.
func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, store kv.Store) {
	window := ratelim.NewWindow(store, 100, time.Minute)

	carts := cart.NewService(store)
	catalog := products.NewService(store)
	orderSvc := orders.NewService(store, carts, catalog)
	paySvc := pay.NewService(store, orderSvc)
	checkoutSvc := checkout.NewService(store, carts)
	provider := auth.NewProvider(store, globals.JwtSecret)
	prefsSvc := prefs.NewService(store)

	AddAuthRoutes(router, window, auth.NewHandlers(provider))
	AddProductRoutes(router, store, window, products.NewHandlers(catalog))
	AddCartRoutes(router, window, cart.NewHandlers(carts))
	AddCheckoutRoutes(router, window, checkout.NewHandlers(checkoutSvc))
	AddOrderRoutes(router, store, window, orders.NewHandlers(orderSvc))
	AddPayRoutes(router, store, rateLimiter, window, pay.NewHandlers(paySvc))
	AddPrefsRoutes(router, window, prefs.NewHandlers(prefsSvc))
	AddUtilityRoutes(router, window, cep.NewHandlers(), emailer.NewHandlers(emailer.NewService(store)))
}
