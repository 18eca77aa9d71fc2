package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"time"

	"vortex/cart"
	"vortex/kv"
	"vortex/models"
	"vortex/products"
	"vortex/utils"
)

// Service stores orders under order:{id} with a user:{uid}:order:{id}
// ownership index; admin listings scan the order: prefix.
type Service struct {
	store    kv.Store
	carts    *cart.Service
	catalog  *products.Service
	now      func() time.Time
	newOrder func() string
}

func NewService(store kv.Store, carts *cart.Service, catalog *products.Service) *Service {
	return &Service{
		store:   store,
		carts:   carts,
		catalog: catalog,
		now:     time.Now,
		newOrder: func() string {
			return "order-" + utils.GetUUID()
		},
	}
}

func orderKey(id string) string { return "order:" + id }

func userOrderKey(userID, orderID string) string {
	return "user:" + userID + ":order:" + orderID
}

func (s *Service) load(ctx context.Context, id string) (*models.Order, *utils.APIError) {
	raw, ok, err := s.store.Get(ctx, orderKey(id))
	if err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not load order")
	}
	if !ok {
		return nil, utils.NewAPIError(http.StatusNotFound, "ORDER_NOT_FOUND", "order not found: "+id)
	}
	var o models.Order
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "corrupt order record")
	}
	return &o, nil
}

func (s *Service) save(ctx context.Context, o *models.Order) *utils.APIError {
	o.UpdatedAt = s.now()
	raw, err := json.Marshal(o)
	if err != nil {
		return utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not encode order")
	}
	if err := s.store.Set(ctx, orderKey(o.OrderID), string(raw)); err != nil {
		return utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not store order")
	}
	return nil
}

// reserveStock decrements inventory for every line item. On failure the
// already-decremented items are re-incremented so a partial reservation
// never sticks.
func (s *Service) reserveStock(ctx context.Context, items []models.CartItem) *utils.APIError {
	var done []models.CartItem
	for _, it := range items {
		if _, apiErr := s.catalog.UpdateStock(ctx, it.ProductID, it.Quantity, products.StockSubtract); apiErr != nil {
			for _, d := range done {
				if _, rbErr := s.catalog.UpdateStock(ctx, d.ProductID, d.Quantity, products.StockAdd); rbErr != nil {
					log.Printf("stock rollback failed for %s: %v", d.ProductID, rbErr)
				}
			}
			return apiErr
		}
		done = append(done, it)
	}
	return nil
}

func (s *Service) releaseStock(ctx context.Context, items []models.CartItem) {
	for _, it := range items {
		if _, apiErr := s.catalog.UpdateStock(ctx, it.ProductID, it.Quantity, products.StockAdd); apiErr != nil {
			log.Printf("stock release failed for %s: %v", it.ProductID, apiErr)
		}
	}
}

// Create turns the user's cart into a pending order. Pricing is the
// discount-aware policy: subtotal after per-item discounts, 10% tax,
// threshold shipping. Stock is reserved up front; the cart is cleared
// only after the order persists.
func (s *Service) Create(ctx context.Context, userID, paymentMethod string, shipping, billing models.Address) (*models.Order, *utils.APIError) {
	items, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not load cart")
	}
	if len(items) == 0 {
		return nil, utils.NewAPIError(http.StatusBadRequest, "EMPTY_CART", "cart is empty")
	}

	switch paymentMethod {
	case models.MethodPix, models.MethodCreditCard, models.MethodBoleto:
	default:
		return nil, utils.NewAPIError(http.StatusBadRequest, "INVALID_METHOD", "unsupported payment method: "+paymentMethod)
	}

	if apiErr := s.reserveStock(ctx, items); apiErr != nil {
		return nil, apiErr
	}

	subtotal, tax, shippingCost, total := cart.OrderPricing(items)
	now := s.now()
	o := &models.Order{
		OrderID:         s.newOrder(),
		UserID:          userID,
		Items:           items,
		Subtotal:        subtotal,
		Tax:             tax,
		Shipping:        shippingCost,
		Total:           total,
		Status:          models.OrderPending,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		ShippingAddress: shipping,
		BillingAddress:  billing,
		CreatedAt:       now,
	}

	if apiErr := s.save(ctx, o); apiErr != nil {
		s.releaseStock(ctx, items)
		return nil, apiErr
	}
	if err := s.store.Set(ctx, userOrderKey(userID, o.OrderID), o.OrderID); err != nil {
		log.Printf("order index write failed for %s: %v", o.OrderID, err)
	}
	if err := s.carts.Clear(ctx, userID); err != nil {
		log.Printf("cart clear failed for %s: %v", userID, err)
	}
	return o, nil
}

// Get enforces ownership: non-admin callers only see their own orders.
func (s *Service) Get(ctx context.Context, orderID, userID, role string) (*models.Order, *utils.APIError) {
	o, apiErr := s.load(ctx, orderID)
	if apiErr != nil {
		return nil, apiErr
	}
	if o.UserID != userID && role != "admin" {
		return nil, utils.NewAPIError(http.StatusForbidden, "FORBIDDEN", "order belongs to another user")
	}
	return o, nil
}

// ListForUser returns the user's orders, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.Order, *utils.APIError) {
	ids, err := s.store.GetByPrefix(ctx, "user:"+userID+":order:")
	if err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not scan orders")
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, orderKey(id))
	}
	return s.collect(ctx, keys)
}

// ListAll is admin-only and scans every order.
func (s *Service) ListAll(ctx context.Context) ([]models.Order, *utils.APIError) {
	raws, err := s.store.GetByPrefix(ctx, "order:")
	if err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not scan orders")
	}
	out := make([]models.Order, 0, len(raws))
	for _, raw := range raws {
		var o models.Order
		if err := json.Unmarshal([]byte(raw), &o); err != nil {
			continue
		}
		out = append(out, o)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *Service) collect(ctx context.Context, keys []string) ([]models.Order, *utils.APIError) {
	if len(keys) == 0 {
		return []models.Order{}, nil
	}
	raws, err := s.store.MGet(ctx, keys...)
	if err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not load orders")
	}
	out := make([]models.Order, 0, len(raws))
	for _, raw := range raws {
		if raw == "" {
			continue
		}
		var o models.Order
		if err := json.Unmarshal([]byte(raw), &o); err != nil {
			continue
		}
		out = append(out, o)
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(items []models.Order) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

var validStatuses = map[string]bool{
	models.OrderPending:    true,
	models.OrderProcessing: true,
	models.OrderShipped:    true,
	models.OrderDelivered:  true,
	models.OrderCancelled:  true,
}

// UpdateStatus is the admin status patch. Moving to cancelled goes
// through the same stock-restoring path as a user cancellation.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status, trackingCode string) (*models.Order, *utils.APIError) {
	if !validStatuses[status] {
		return nil, utils.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "unknown order status: "+status)
	}
	o, apiErr := s.load(ctx, orderID)
	if apiErr != nil {
		return nil, apiErr
	}

	if status == models.OrderCancelled {
		return s.cancel(ctx, o)
	}

	o.Status = status
	if trackingCode != "" {
		o.TrackingCode = trackingCode
	}
	if apiErr := s.save(ctx, o); apiErr != nil {
		return nil, apiErr
	}
	return o, nil
}

// UpdatePaymentStatus records the payment outcome; a successful payment
// stamps paidAt and moves the order to processing.
func (s *Service) UpdatePaymentStatus(ctx context.Context, orderID, paymentStatus string) (*models.Order, *utils.APIError) {
	switch paymentStatus {
	case models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusFailed, models.PaymentStatusRefunded:
	default:
		return nil, utils.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "unknown payment status: "+paymentStatus)
	}

	o, apiErr := s.load(ctx, orderID)
	if apiErr != nil {
		return nil, apiErr
	}
	o.PaymentStatus = paymentStatus
	if paymentStatus == models.PaymentStatusPaid && o.PaidAt == nil {
		now := s.now()
		o.PaidAt = &now
		o.Status = models.OrderProcessing
	}
	if apiErr := s.save(ctx, o); apiErr != nil {
		return nil, apiErr
	}
	return o, nil
}

// Cancel is the user-facing cancellation with an ownership check.
func (s *Service) Cancel(ctx context.Context, orderID, userID, role string) (*models.Order, *utils.APIError) {
	o, apiErr := s.Get(ctx, orderID, userID, role)
	if apiErr != nil {
		return nil, apiErr
	}
	return s.cancel(ctx, o)
}

// cancel restores reserved stock exactly once. Delivered orders cannot
// be cancelled; cancelling twice fails rather than double-restoring.
func (s *Service) cancel(ctx context.Context, o *models.Order) (*models.Order, *utils.APIError) {
	switch o.Status {
	case models.OrderDelivered:
		return nil, utils.NewAPIError(http.StatusConflict, "CANNOT_CANCEL", "delivered orders cannot be cancelled")
	case models.OrderCancelled:
		return nil, utils.NewAPIError(http.StatusConflict, "ALREADY_CANCELLED", "order is already cancelled")
	}

	s.releaseStock(ctx, o.Items)

	now := s.now()
	o.Status = models.OrderCancelled
	o.CancelledAt = &now
	if o.PaymentStatus == models.PaymentStatusPaid {
		o.PaymentStatus = models.PaymentStatusRefunded
	}
	if apiErr := s.save(ctx, o); apiErr != nil {
		return nil, apiErr
	}
	return o, nil
}

// Statistics aggregates counts and revenue for the admin dashboard.
// Revenue only counts paid, non-cancelled orders.
func (s *Service) Statistics(ctx context.Context) (utils.M, *utils.APIError) {
	all, apiErr := s.ListAll(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	byStatus := map[string]int{}
	revenue := 0.0
	for _, o := range all {
		byStatus[o.Status]++
		if o.PaymentStatus == models.PaymentStatusPaid && o.Status != models.OrderCancelled {
			revenue += o.Total
		}
	}
	return utils.M{
		"totalOrders":  len(all),
		"byStatus":     byStatus,
		"totalRevenue": revenue,
	}, nil
}
