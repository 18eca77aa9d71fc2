package models

import "time"

// Checkout steps
const (
	StepCustomerData = 1
	StepPayment      = 2
	StepConfirmation = 3
)

type CustomerData struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	CPF          string `json:"cpf"`
	Phone        string `json:"phone"`
	ZipCode      string `json:"zipCode"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// CheckoutSession is the transient state of one checkout run. Step only
// moves forward through validation gates; step 3 is terminal.
type CheckoutSession struct {
	UserID        string       `json:"userId"`
	Step          int          `json:"step"`
	PaymentMethod string       `json:"paymentMethod,omitempty"` // pix, credit_card, boleto
	Customer      CustomerData `json:"customer"`
	Card          CardData     `json:"card"`
	OrderID       string       `json:"orderId,omitempty"`
	PixPayload    string       `json:"pixPayload,omitempty"`
	PixQrCodeURL  string       `json:"pixQrCodeUrl,omitempty"`
	BoletoLine    string       `json:"boletoLine,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

type Preferences struct {
	Wishlist       []string  `json:"wishlist"`
	RecentlyViewed []string  `json:"recentlyViewed"`
	SoundEnabled   bool      `json:"soundEnabled"`
	HighContrast   bool      `json:"highContrast"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
