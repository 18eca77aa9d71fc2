package cart

import "vortex/models"

// Two pricing policies existed in the storefront this replaces: the plain
// drawer summed price*qty with no discount, the advanced drawer applied
// per-item percentage discounts plus threshold shipping. Both are kept as
// named functions; order creation uses the discount-aware one (see
// DESIGN.md for the policy decision).

const (
	freeShippingThreshold = 500.0
	flatShipping          = 29.90
	taxRate               = 0.1
)

// Total is the plain cart-display total: sum of price*quantity, no
// discount applied at this stage.
func Total(items []models.CartItem) float64 {
	sum := 0.0
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// DiscountSubtotal applies each item's percentage discount to its unit
// price before multiplying by quantity.
func DiscountSubtotal(items []models.CartItem) float64 {
	sum := 0.0
	for _, it := range items {
		price := it.Price
		if it.Discount > 0 {
			price = price * (1 - it.Discount/100)
		}
		sum += price * float64(it.Quantity)
	}
	return sum
}

// DrawerTotal is the discount-aware display total: subtotal after
// per-item discounts plus threshold shipping, no tax.
func DrawerTotal(items []models.CartItem) float64 {
	subtotal := DiscountSubtotal(items)
	return subtotal + Shipping(subtotal)
}

// Shipping is free above the threshold, flat below it.
func Shipping(subtotal float64) float64 {
	if subtotal > freeShippingThreshold {
		return 0
	}
	return flatShipping
}

// OrderPricing is the canonical order-creation breakdown:
// discount-aware subtotal, 10% tax, threshold shipping.
// Invariant: total = subtotal + tax + shipping.
func OrderPricing(items []models.CartItem) (subtotal, tax, shipping, total float64) {
	subtotal = DiscountSubtotal(items)
	tax = subtotal * taxRate
	shipping = Shipping(subtotal)
	total = subtotal + tax + shipping
	return
}
