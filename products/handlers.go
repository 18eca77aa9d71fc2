package products

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
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

func parseFloat(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func filterFromQuery(r *http.Request) Filter {
	q := r.URL.Query()
	f := NewFilter()
	f.Category = q.Get("category")
	f.MinPrice = parseFloat(q.Get("minPrice"), f.MinPrice)
	f.MaxPrice = parseFloat(q.Get("maxPrice"), f.MaxPrice)
	f.Search = q.Get("search")
	f.InStock = q.Get("inStock") == "true"
	f.SortBy = q.Get("sortBy")
	f.SortDir = q.Get("sortDir")
	f.Page = parseInt(q.Get("page"), f.Page)
	f.Limit = parseInt(q.Get("limit"), f.Limit)
	if tags := q.Get("tags"); tags != "" {
		f.Tags = strings.Split(tags, ",")
	}
	return f
}

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	f := filterFromQuery(r)
	items, total, apiErr := h.svc.List(ctx, f)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	utils.RespondSuccessMeta(w, http.StatusOK, items, utils.Meta{
		Page:  f.Page,
		Limit: f.Limit,
		Total: total,
	})
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	p, apiErr := h.svc.Get(ctx, ps.ByName("id"))
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, p)
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON payload")
		return
	}
	created, apiErr := h.svc.Create(ctx, p)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	var patch models.Product
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON payload")
		return
	}
	updated, apiErr := h.svc.Update(ctx, ps.ByName("id"), patch)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	if apiErr := h.svc.Delete(ctx, ps.ByName("id")); apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, utils.M{"status": "deleted"})
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	categories, apiErr := h.svc.Categories(ctx)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, categories)
}

func (h *Handlers) UpdateStock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	var payload struct {
		Quantity  int    `json:"quantity"`
		Operation string `json:"operation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON payload")
		return
	}
	if payload.Operation == "" {
		payload.Operation = StockSet
	}

	updated, apiErr := h.svc.UpdateStock(ctx, ps.ByName("id"), payload.Quantity, payload.Operation)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, updated)
}
