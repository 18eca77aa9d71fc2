package models

import "time"

const (
	PayPending   = "pending"
	PayCompleted = "completed"
	PayFailed    = "failed"
	PayRefunded  = "refunded"
)

// Payment is keyed by its generated id and linked 1:1 to an order via
// order:{id}:payment. Latest write wins.
type Payment struct {
	PaymentID     string     `json:"id"`
	OrderID       string     `json:"orderId"`
	Amount        float64    `json:"amount"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transactionId,omitempty"`
	PixKey        string     `json:"pixKey,omitempty"`
	PixCode       string     `json:"pixCode,omitempty"`
	PixQrCode     string     `json:"pixQrCode,omitempty"`
	BoletoLine    string     `json:"boletoLine,omitempty"`
	BoletoBarcode string     `json:"boletoBarcode,omitempty"`
	BoletoImage   string     `json:"boletoImage,omitempty"`
	BoletoURL     string     `json:"boletoUrl,omitempty"`
	CardLast4     string     `json:"cardLast4,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

type CardData struct {
	Number string `json:"number"`
	Holder string `json:"holderName"`
	Expiry string `json:"expiry"` // MM/YY
	CVV    string `json:"cvv"`
	Brand  string `json:"brand,omitempty"`
}
