package cart

import (
	"math"
	"testing"

	"vortex/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTotalPlainPolicy(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "a", Price: 100, Quantity: 2},
		{ProductID: "b", Price: 50, Quantity: 1},
	}
	if got := Total(items); !almostEqual(got, 250.00) {
		t.Errorf("Total = %v, want 250.00", got)
	}
}

func TestDrawerTotalDiscountPolicy(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "a", Price: 100, Quantity: 2, Discount: 10},
		{ProductID: "b", Price: 50, Quantity: 1},
	}
	if got := DiscountSubtotal(items); !almostEqual(got, 230.00) {
		t.Errorf("DiscountSubtotal = %v, want 230.00", got)
	}
	if got := Shipping(230.00); !almostEqual(got, 29.90) {
		t.Errorf("Shipping(230) = %v, want 29.90", got)
	}
	if got := DrawerTotal(items); !almostEqual(got, 259.90) {
		t.Errorf("DrawerTotal = %v, want 259.90", got)
	}
}

func TestShippingThreshold(t *testing.T) {
	if got := Shipping(500.00); !almostEqual(got, 29.90) {
		t.Errorf("Shipping at exactly 500 = %v, want 29.90", got)
	}
	if got := Shipping(500.01); !almostEqual(got, 0) {
		t.Errorf("Shipping above 500 = %v, want 0", got)
	}
}

func TestOrderPricingInvariant(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "a", Price: 100, Quantity: 2, Discount: 10},
		{ProductID: "b", Price: 50, Quantity: 1},
	}
	subtotal, tax, shipping, total := OrderPricing(items)
	if !almostEqual(subtotal, 230.00) {
		t.Errorf("subtotal = %v, want 230.00", subtotal)
	}
	if !almostEqual(tax, 23.00) {
		t.Errorf("tax = %v, want 23.00", tax)
	}
	if !almostEqual(shipping, 29.90) {
		t.Errorf("shipping = %v, want 29.90", shipping)
	}
	if !almostEqual(total, subtotal+tax+shipping) {
		t.Errorf("total %v != subtotal+tax+shipping %v", total, subtotal+tax+shipping)
	}
}

func TestOrderPricingFreeShipping(t *testing.T) {
	items := []models.CartItem{{ProductID: "a", Price: 600, Quantity: 1}}
	_, _, shipping, _ := OrderPricing(items)
	if !almostEqual(shipping, 0) {
		t.Errorf("shipping = %v, want 0 above threshold", shipping)
	}
}
