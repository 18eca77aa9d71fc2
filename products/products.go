package products

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"vortex/kv"
	"vortex/models"
	"vortex/utils"
)

// Service keeps the catalog in the key-value store: product:{id} holds
// the record, category:{cat}:{id} is a secondary index used for
// category-scoped scans.
type Service struct {
	store kv.Store
	now   func() time.Time
}

func NewService(store kv.Store) *Service {
	return &Service{store: store, now: time.Now}
}

func productKey(id string) string { return "product:" + id }

func categoryKey(category, id string) string {
	return "category:" + category + ":" + id
}

// Filter narrows the catalog listing. Build it with NewFilter: the zero
// value is NOT a match-all filter, MaxPrice 0 would exclude every priced
// product.
type Filter struct {
	Category string
	MinPrice float64
	MaxPrice float64
	Search   string
	Tags     []string
	InStock  bool
	SortBy   string
	SortDir  string
	Page     int
	Limit    int
}

// NewFilter returns a filter that matches the whole catalog: open price
// bounds and the first page at the default size.
func NewFilter() Filter {
	return Filter{MinPrice: -1, MaxPrice: -1, Page: 1, Limit: 20}
}

func (s *Service) Get(ctx context.Context, id string) (*models.Product, *utils.APIError) {
	raw, ok, err := s.store.Get(ctx, productKey(id))
	if err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not load product")
	}
	if !ok {
		return nil, utils.NewAPIError(http.StatusNotFound, "PRODUCT_NOT_FOUND", "product not found: "+id)
	}
	var p models.Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "corrupt product record")
	}
	return &p, nil
}

func (s *Service) all(ctx context.Context) ([]models.Product, *utils.APIError) {
	raws, err := s.store.GetByPrefix(ctx, "product:")
	if err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not scan catalog")
	}
	out := make([]models.Product, 0, len(raws))
	for _, raw := range raws {
		var p models.Product
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func matches(p models.Product, f Filter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MinPrice >= 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice >= 0 && p.Price > f.MaxPrice {
		return false
	}
	if f.InStock && p.Stock <= 0 {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		hit := strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q)
		for _, t := range p.Tags {
			if hit {
				break
			}
			hit = strings.Contains(strings.ToLower(t), q)
		}
		if !hit {
			return false
		}
	}
	for _, want := range f.Tags {
		found := false
		for _, t := range p.Tags {
			if strings.EqualFold(t, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortProducts(items []models.Product, by, dir string) {
	if by == "" {
		by = "name"
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if dir == "desc" {
			a, b = b, a
		}
		switch by {
		case "price":
			return a.Price < b.Price
		case "stock":
			return a.Stock < b.Stock
		case "discount":
			return a.Discount < b.Discount
		case "createdAt":
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.Name < b.Name
		}
	})
}

// List applies filter, sort and pagination; total counts the filtered set
// before the page slice.
func (s *Service) List(ctx context.Context, f Filter) ([]models.Product, int, *utils.APIError) {
	items, apiErr := s.all(ctx)
	if apiErr != nil {
		return nil, 0, apiErr
	}

	filtered := items[:0]
	for _, p := range items {
		if matches(p, f) {
			filtered = append(filtered, p)
		}
	}
	sortProducts(filtered, f.SortBy, f.SortDir)
	total := len(filtered)

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	start := (f.Page - 1) * f.Limit
	if start >= total {
		return []models.Product{}, total, nil
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

func (s *Service) save(ctx context.Context, p *models.Product) *utils.APIError {
	raw, err := json.Marshal(p)
	if err != nil {
		return utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not encode product")
	}
	entries := map[string]string{
		productKey(p.ProductID):              string(raw),
		categoryKey(p.Category, p.ProductID): p.ProductID,
	}
	if err := s.store.MSet(ctx, entries); err != nil {
		return utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not store product")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p models.Product) (*models.Product, *utils.APIError) {
	if p.Name == "" || p.Price <= 0 || p.Category == "" {
		return nil, utils.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "name, positive price and category are required")
	}
	if p.ProductID == "" {
		p.ProductID = utils.GetUUID()
	}
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	if apiErr := s.save(ctx, &p); apiErr != nil {
		return nil, apiErr
	}
	return &p, nil
}

// Update overlays non-zero fields onto the stored product.
func (s *Service) Update(ctx context.Context, id string, patch models.Product) (*models.Product, *utils.APIError) {
	p, apiErr := s.Get(ctx, id)
	if apiErr != nil {
		return nil, apiErr
	}

	oldCategory := p.Category
	if patch.Name != "" {
		p.Name = patch.Name
	}
	if patch.Description != "" {
		p.Description = patch.Description
	}
	if patch.Price > 0 {
		p.Price = patch.Price
	}
	if patch.OriginalPrice > 0 {
		p.OriginalPrice = patch.OriginalPrice
	}
	if patch.Category != "" {
		p.Category = patch.Category
	}
	if patch.Image != "" {
		p.Image = patch.Image
	}
	if patch.Discount > 0 {
		p.Discount = patch.Discount
	}
	if patch.Specs != nil {
		p.Specs = patch.Specs
	}
	if patch.Tags != nil {
		p.Tags = patch.Tags
	}
	p.IsNew = patch.IsNew
	p.IsBestSeller = patch.IsBestSeller
	p.UpdatedAt = s.now()

	if apiErr := s.save(ctx, p); apiErr != nil {
		return nil, apiErr
	}
	if oldCategory != p.Category {
		_ = s.store.Del(ctx, categoryKey(oldCategory, p.ProductID))
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) *utils.APIError {
	p, apiErr := s.Get(ctx, id)
	if apiErr != nil {
		return apiErr
	}
	if err := s.store.Del(ctx, productKey(id), categoryKey(p.Category, id)); err != nil {
		return utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not delete product")
	}
	return nil
}

// Categories returns the distinct category names, sorted.
func (s *Service) Categories(ctx context.Context) ([]string, *utils.APIError) {
	items, apiErr := s.all(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	seen := map[string]bool{}
	var out []string
	for _, p := range items {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Stock operations
const (
	StockAdd      = "add"
	StockSubtract = "subtract"
	StockSet      = "set"
)

// UpdateStock adjusts inventory. Subtracting below zero fails with
// INSUFFICIENT_STOCK and leaves the record untouched.
func (s *Service) UpdateStock(ctx context.Context, id string, quantity int, op string) (*models.Product, *utils.APIError) {
	p, apiErr := s.Get(ctx, id)
	if apiErr != nil {
		return nil, apiErr
	}

	switch op {
	case StockAdd:
		p.Stock += quantity
	case StockSubtract:
		if p.Stock < quantity {
			return nil, utils.NewAPIError(http.StatusConflict, "INSUFFICIENT_STOCK",
				"insufficient stock for product "+id)
		}
		p.Stock -= quantity
	case StockSet:
		if quantity < 0 {
			return nil, utils.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "stock cannot be negative")
		}
		p.Stock = quantity
	default:
		return nil, utils.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "unknown stock operation: "+op)
	}

	p.UpdatedAt = s.now()
	if apiErr := s.save(ctx, p); apiErr != nil {
		return nil, apiErr
	}
	return p, nil
}
