// Package prefs persists per-user UI state (wishlist, recently viewed,
// sound and contrast toggles) so it follows the account across devices.
package prefs

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"vortex/kv"
	"vortex/models"
	"vortex/utils"
)

type Service struct {
	store kv.Store
	now   func() time.Time
}

func NewService(store kv.Store) *Service {
	return &Service{store: store, now: time.Now}
}

func prefsKey(userID string) string { return "prefs:" + userID }

func (s *Service) Get(ctx context.Context, userID string) (*models.Preferences, *utils.APIError) {
	raw, ok, err := s.store.Get(ctx, prefsKey(userID))
	if err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not load preferences")
	}
	if !ok {
		return &models.Preferences{
			Wishlist:       []string{},
			RecentlyViewed: []string{},
			SoundEnabled:   true,
		}, nil
	}
	var p models.Preferences
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "corrupt preferences record")
	}
	return &p, nil
}

func (s *Service) Put(ctx context.Context, userID string, p models.Preferences) (*models.Preferences, *utils.APIError) {
	p.UpdatedAt = s.now()
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not encode preferences")
	}
	if err := s.store.Set(ctx, prefsKey(userID), string(raw)); err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not store preferences")
	}
	return &p, nil
}

type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

func (h *Handlers) GetPreferences(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	p, apiErr := h.svc.Get(ctx, userID)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, p)
}

func (h *Handlers) PutPreferences(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var p models.Preferences
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON payload")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	saved, apiErr := h.svc.Put(ctx, userID, p)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, saved)
}
