package routes

import (
	"github.com/julienschmidt/httprouter"

	"vortex/cep"
	"vortex/emailer"
	"vortex/middleware"
	"vortex/ratelim"
)

func AddUtilityRoutes(router *httprouter.Router, window *ratelim.Window, h *cep.Handlers, mail *emailer.Handlers) {
	router.GET("/api/v1/utils/cep/:cep",
		middleware.Chain(middleware.Recover, window.Limit)(h.Lookup))
	router.POST("/api/v1/utils/send-email",
		middleware.Chain(middleware.Recover, window.Limit, middleware.Authenticate)(mail.SendEmail))
}
