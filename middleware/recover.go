package middleware

import (
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"vortex/globals"
	"vortex/utils"
)

// Recover converts handler panics into a 500 envelope instead of a
// dropped connection.
func Recover(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic on %s %s: %v", r.Method, r.URL.Path, rec)
				msg := "internal server error"
				if !globals.Production() {
					msg = "internal server error (see logs)"
				}
				utils.RespondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", msg)
			}
		}()
		next(w, r, ps)
	}
}
