package models

import "time"

// Order lifecycle statuses. Transitions are forward-only except
// cancellation, which is legal from any non-delivered, non-cancelled state.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

const (
	MethodPix        = "pix"
	MethodCreditCard = "credit_card"
	MethodBoleto     = "boleto"
)

type Order struct {
	OrderID         string     `json:"id"`
	UserID          string     `json:"userId"`
	Items           []CartItem `json:"items"`
	Total           float64    `json:"total"`
	Subtotal        float64    `json:"subtotal"`
	Tax             float64    `json:"tax"`
	Shipping        float64    `json:"shipping"`
	Status          string     `json:"status"`
	PaymentMethod   string     `json:"paymentMethod"`
	PaymentStatus   string     `json:"paymentStatus"`
	ShippingAddress Address    `json:"shippingAddress"`
	BillingAddress  Address    `json:"billingAddress"`
	TrackingCode    string     `json:"trackingCode,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
}
