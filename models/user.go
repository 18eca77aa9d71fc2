package models

import "time"

type User struct {
	UserID    string            `json:"id"`
	Email     string            `json:"email"`
	Name      string            `json:"name"`
	Role      string            `json:"role"` // customer, admin
	CreatedAt time.Time         `json:"createdAt"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// StoredUser carries the bcrypt hash; never serialized into responses.
type StoredUser struct {
	User
	PasswordHash string `json:"passwordHash"`
}

type Session struct {
	UserID      string    `json:"userId"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
}
