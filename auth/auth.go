package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"vortex/kv"
	"vortex/middleware"
	"vortex/models"
	"vortex/utils"
)

const accessTokenTTL = 24 * time.Hour

// Provider implements the auth contract on top of the key-value store:
// users under user:{id} plus a user:email:{email} lookup entry, sessions
// under session:{jti}.
type Provider struct {
	store  kv.Store
	secret []byte
	now    func() time.Time
}

func NewProvider(store kv.Store, secret []byte) *Provider {
	return &Provider{store: store, secret: secret, now: time.Now}
}

func userKey(id string) string     { return "user:" + id }
func emailKey(email string) string { return "user:email:" + strings.ToLower(email) }
func sessionKey(jti string) string { return "session:" + jti }

func (p *Provider) getStoredUser(ctx context.Context, id string) (*models.StoredUser, error) {
	raw, ok, err := p.store.Get(ctx, userKey(id))
	if err != nil || !ok {
		return nil, err
	}
	var u models.StoredUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *Provider) saveStoredUser(ctx context.Context, u *models.StoredUser) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := p.store.Set(ctx, userKey(u.UserID), string(raw)); err != nil {
		return err
	}
	return p.store.Set(ctx, emailKey(u.Email), u.UserID)
}

// CreateUser registers a new customer account. Emails are unique,
// compared case-insensitively.
func (p *Provider) CreateUser(ctx context.Context, email, password, name string) (*models.User, *utils.APIError) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" || name == "" {
		return nil, utils.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "email, password and name are required")
	}
	if len(password) < 6 {
		return nil, utils.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "password must be at least 6 characters")
	}

	if _, exists, err := p.store.Get(ctx, emailKey(email)); err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not check existing users")
	} else if exists {
		return nil, utils.NewAPIError(http.StatusBadRequest, "USER_EXISTS", "an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not hash password")
	}

	u := &models.StoredUser{
		User: models.User{
			UserID:    utils.GetUUID(),
			Email:     email,
			Name:      name,
			Role:      "customer",
			CreatedAt: p.now(),
		},
		PasswordHash: string(hash),
	}
	if err := p.saveStoredUser(ctx, u); err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not store user")
	}
	return &u.User, nil
}

// SignInWithPassword verifies credentials and opens a session. The JWT id
// doubles as the session key so sign-out can revoke it.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*models.User, *models.Session, *utils.APIError) {
	invalid := utils.NewAPIError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")

	id, ok, err := p.store.Get(ctx, emailKey(strings.TrimSpace(email)))
	if err != nil {
		return nil, nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not look up user")
	}
	if !ok {
		return nil, nil, invalid
	}
	stored, err := p.getStoredUser(ctx, id)
	if err != nil || stored == nil {
		return nil, nil, invalid
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)) != nil {
		return nil, nil, invalid
	}

	jti := utils.GetUUID()
	now := p.now()
	expiresAt := now.Add(accessTokenTTL)
	claims := &middleware.Claims{
		Username: stored.Name,
		UserID:   stored.UserID,
		Role:     stored.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   stored.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not sign token")
	}

	sess := &models.Session{
		UserID:      stored.UserID,
		AccessToken: token,
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
	}
	raw, _ := json.Marshal(sess)
	if err := p.store.Set(ctx, sessionKey(jti), string(raw)); err != nil {
		return nil, nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not store session")
	}
	return &stored.User, sess, nil
}

// GetUser resolves an access token to its user. The token must be valid
// and its session still open.
func (p *Provider) GetUser(ctx context.Context, token string) (*models.User, *utils.APIError) {
	invalid := utils.NewAPIError(http.StatusUnauthorized, "INVALID_TOKEN", "invalid or expired token")

	claims, err := middleware.ValidateJWT(token)
	if err != nil {
		return nil, invalid
	}
	if _, open, err := p.store.Get(ctx, sessionKey(claims.ID)); err != nil || !open {
		return nil, invalid
	}
	stored, err := p.getStoredUser(ctx, claims.UserID)
	if err != nil || stored == nil {
		return nil, invalid
	}
	return &stored.User, nil
}

// SignOut revokes the token's session. Signing out an already invalid
// token is a no-op.
func (p *Provider) SignOut(ctx context.Context, token string) *utils.APIError {
	claims, err := middleware.ValidateJWT(token)
	if err != nil {
		return nil
	}
	if err := p.store.Del(ctx, sessionKey(claims.ID)); err != nil {
		return utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not revoke session")
	}
	return nil
}

// UpdateProfile patches name and metadata on the stored user.
func (p *Provider) UpdateProfile(ctx context.Context, userID, name string, metadata map[string]string) (*models.User, *utils.APIError) {
	stored, err := p.getStoredUser(ctx, userID)
	if err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not load user")
	}
	if stored == nil {
		return nil, utils.NewAPIError(http.StatusNotFound, "INVALID_TOKEN", "user not found")
	}
	if name != "" {
		stored.Name = name
	}
	if metadata != nil {
		if stored.Metadata == nil {
			stored.Metadata = map[string]string{}
		}
		for k, v := range metadata {
			stored.Metadata[k] = v
		}
	}
	if err := p.saveStoredUser(ctx, stored); err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not store user")
	}
	return &stored.User, nil
}
