package routes

import (
	"time"

	"github.com/julienschmidt/httprouter"

	"vortex/kv"
	"vortex/middleware"
	"vortex/products"
	"vortex/ratelim"
)

func AddProductRoutes(router *httprouter.Router, store kv.Store, window *ratelim.Window, h *products.Handlers) {
	router.GET("/api/v1/products",
		middleware.Chain(middleware.Recover, window.Limit)(h.ListProducts))
	// Lives outside /products/ because httprouter cannot mix a static
	// segment with the :id wildcard.
	router.GET("/api/v1/categories",
		middleware.Chain(middleware.Recover, window.Limit, middleware.CacheResponse(store, 300*time.Second))(h.ListCategories))
	router.GET("/api/v1/products/:id",
		middleware.Chain(middleware.Recover, window.Limit)(h.GetProduct))

	router.POST("/api/v1/products",
		middleware.Chain(middleware.Recover, window.Limit, middleware.Authenticate, middleware.RequireAdmin)(h.CreateProduct))
	router.PUT("/api/v1/products/:id",
		middleware.Chain(middleware.Recover, window.Limit, middleware.Authenticate, middleware.RequireAdmin)(h.UpdateProduct))
	router.DELETE("/api/v1/products/:id",
		middleware.Chain(middleware.Recover, window.Limit, middleware.Authenticate, middleware.RequireAdmin)(h.DeleteProduct))
	router.PATCH("/api/v1/products/:id/stock",
		middleware.Chain(middleware.Recover, window.Limit, middleware.Authenticate, middleware.RequireAdmin)(h.UpdateStock))

	router.POST("/api/v1/admin/seed",
		middleware.Chain(middleware.Recover, window.Limit, middleware.Authenticate, middleware.RequireAdmin)(h.SeedCatalog))
}
