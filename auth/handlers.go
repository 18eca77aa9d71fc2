package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"vortex/utils"
)

type Handlers struct {
	provider *Provider
}

func NewHandlers(provider *Provider) *Handlers {
	return &Handlers{provider: provider}
}

func (h *Handlers) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 10*time.Second)
}

func tokenFromHeader(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return header[7:]
	}
	return ""
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON payload")
		return
	}

	user, apiErr := h.provider.CreateUser(ctx, input.Email, input.Password, input.Name)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusCreated, user)
}

func (h *Handlers) Signin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON payload")
		return
	}

	user, sess, apiErr := h.provider.SignInWithPassword(ctx, input.Email, input.Password)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, utils.M{
		"user":        user,
		"accessToken": sess.AccessToken,
		"expiresAt":   sess.ExpiresAt,
	})
}

func (h *Handlers) Signout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	if apiErr := h.provider.SignOut(ctx, tokenFromHeader(r)); apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, utils.M{"status": "signed out"})
}

func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	user, apiErr := h.provider.GetUser(ctx, tokenFromHeader(r))
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, user)
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	var input struct {
		Name     string            `json:"name"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON payload")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	user, apiErr := h.provider.UpdateProfile(ctx, userID, input.Name, input.Metadata)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, user)
}
