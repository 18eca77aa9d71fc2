package models

import "time"

type Product struct {
	ProductID     string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Price         float64           `json:"price"`
	OriginalPrice float64           `json:"originalPrice,omitempty"`
	Category      string            `json:"category"`
	Image         string            `json:"image"`
	Stock         int               `json:"stock"`
	Discount      float64           `json:"discount,omitempty"` // percentage
	IsNew         bool              `json:"isNew,omitempty"`
	IsBestSeller  bool              `json:"isBestSeller,omitempty"`
	Specs         map[string]string `json:"specs,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

type CartItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Discount  float64 `json:"discount,omitempty"` // percentage off unit price
	Name      string  `json:"name"`
	Image     string  `json:"image"`
}

type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Country      string `json:"country"`
}
