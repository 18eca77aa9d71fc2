package orders

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

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	var payload struct {
		PaymentMethod   string         `json:"paymentMethod"`
		ShippingAddress models.Address `json:"shippingAddress"`
		BillingAddress  models.Address `json:"billingAddress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON payload")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	o, apiErr := h.svc.Create(ctx, userID, payload.PaymentMethod, payload.ShippingAddress, payload.BillingAddress)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusCreated, o)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	role := utils.GetRoleFromRequest(r)
	o, apiErr := h.svc.Get(ctx, ps.ByName("id"), userID, role)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, o)
}

func (h *Handlers) ListMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	items, apiErr := h.svc.ListForUser(ctx, userID)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, items)
}

func (h *Handlers) ListAllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	items, apiErr := h.svc.ListAll(ctx)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, items)
}

func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	var payload struct {
		Status       string `json:"status"`
		TrackingCode string `json:"trackingCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON payload")
		return
	}

	o, apiErr := h.svc.UpdateStatus(ctx, ps.ByName("id"), payload.Status, payload.TrackingCode)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, o)
}

func (h *Handlers) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	var payload struct {
		PaymentStatus string `json:"paymentStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON payload")
		return
	}

	o, apiErr := h.svc.UpdatePaymentStatus(ctx, ps.ByName("id"), payload.PaymentStatus)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, o)
}

func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	role := utils.GetRoleFromRequest(r)
	o, apiErr := h.svc.Cancel(ctx, ps.ByName("id"), userID, role)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, o)
}

func (h *Handlers) Statistics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	stats, apiErr := h.svc.Statistics(ctx)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, stats)
}
