package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"vortex/models"
	"vortex/utils"
)

type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

func (h *Handlers) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 10*time.Second)
}

// OpenCheckout resets the wizard to step 1.
func (h *Handlers) OpenCheckout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	sess, apiErr := h.svc.Open(ctx, userID)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusCreated, sess)
}

func (h *Handlers) GetCheckout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	sess, apiErr := h.svc.Current(ctx, userID)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, sess)
}

func (h *Handlers) SubmitCustomerData(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	var data models.CustomerData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON payload")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	sess, apiErr := h.svc.SubmitCustomerData(ctx, userID, data)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, sess)
}

func (h *Handlers) ConfirmPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	var payload struct {
		Method string           `json:"method"`
		Card   *models.CardData `json:"card,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON payload")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	sess, apiErr := h.svc.ConfirmPayment(ctx, userID, payload.Method, payload.Card)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, sess)
}

func (h *Handlers) ConcludeCheckout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if apiErr := h.svc.Conclude(ctx, userID); apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, utils.M{"status": "completed"})
}
