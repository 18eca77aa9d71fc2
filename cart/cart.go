package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"vortex/kv"
	"vortex/models"
	"vortex/utils"
)

// Service keeps one cart per user in the key-value store under cart:{userID}.
type Service struct {
	store kv.Store
}

func NewService(store kv.Store) *Service {
	return &Service{store: store}
}

func cartKey(userID string) string { return "cart:" + userID }

func (s *Service) Get(ctx context.Context, userID string) ([]models.CartItem, error) {
	raw, ok, err := s.store.Get(ctx, cartKey(userID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.CartItem{}, nil
	}
	var items []models.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) save(ctx context.Context, userID string, items []models.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, cartKey(userID), string(raw))
}

// Add increments quantity if the product is already in the cart, otherwise
// appends the item.
func (s *Service) Add(ctx context.Context, userID string, item models.CartItem) ([]models.CartItem, error) {
	items, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, item)
	}
	return items, s.save(ctx, userID, items)
}

// UpdateQuantity sets the quantity for a product; zero or negative removes it.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) ([]models.CartItem, error) {
	items, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	next := items[:0]
	for _, it := range items {
		if it.ProductID == productID {
			if quantity <= 0 {
				continue
			}
			it.Quantity = quantity
		}
		next = append(next, it)
	}
	return next, s.save(ctx, userID, next)
}

func (s *Service) Remove(ctx context.Context, userID, productID string) ([]models.CartItem, error) {
	return s.UpdateQuantity(ctx, userID, productID, 0)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.store.Del(ctx, cartKey(userID))
}

// ===== Handlers =====

type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

func (h *Handlers) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 10*time.Second)
}

func (h *Handlers) respondCart(w http.ResponseWriter, status int, items []models.CartItem) {
	utils.RespondSuccess(w, status, utils.M{
		"items": items,
		"total": Total(items),
	})
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	items, err := h.svc.Get(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "FETCH_ERROR", "could not retrieve cart")
		return
	}
	h.respondCart(w, http.StatusOK, items)
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	var item models.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON payload")
		return
	}
	if item.ProductID == "" || item.Quantity <= 0 || item.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "missing or invalid fields")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	items, err := h.svc.Add(ctx, userID, item)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "CART_ERROR", "failed to add to cart")
		return
	}
	h.respondCart(w, http.StatusCreated, items)
}

func (h *Handlers) UpdateItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	var payload struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ProductID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON payload")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	items, err := h.svc.UpdateQuantity(ctx, userID, payload.ProductID, payload.Quantity)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "CART_ERROR", "failed to update cart")
		return
	}
	h.respondCart(w, http.StatusOK, items)
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if err := h.svc.Clear(ctx, userID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "CART_ERROR", "failed to clear cart")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, utils.M{"status": "cleared"})
}
