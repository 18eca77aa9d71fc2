package ratelim

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"vortex/kv"
	"vortex/utils"
)

type windowState struct {
	Count   int       `json:"count"`
	ResetAt time.Time `json:"resetAt"`
}

// Window is the shared fixed-window limiter backed by the key-value
// store, so the count survives restarts and is shared across instances.
// Store failures fail open: limiting is protection, not a gate.
type Window struct {
	store    kv.Store
	limit    int
	interval time.Duration
	now      func() time.Time
}

func NewWindow(store kv.Store, limit int, interval time.Duration) *Window {
	return &Window{store: store, limit: limit, interval: interval, now: time.Now}
}

// Allow counts one hit for the key and reports whether it is within the
// window's budget, plus when the window resets.
func (wl *Window) Allow(r *http.Request, key string) (bool, time.Time) {
	ctx := r.Context()
	storeKey := "ratelim:" + key
	now := wl.now()

	state := windowState{Count: 0, ResetAt: now.Add(wl.interval)}
	if raw, ok, err := wl.store.Get(ctx, storeKey); err != nil {
		log.Printf("rate limit read failed for %s: %v", key, err)
		return true, state.ResetAt
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &state); err != nil || now.After(state.ResetAt) {
			state = windowState{Count: 0, ResetAt: now.Add(wl.interval)}
		}
	}

	state.Count++
	if raw, err := json.Marshal(state); err == nil {
		if err := wl.store.Set(ctx, storeKey, string(raw)); err != nil {
			log.Printf("rate limit write failed for %s: %v", key, err)
			return true, state.ResetAt
		}
	}

	return state.Count <= wl.limit, state.ResetAt
}

// Limit applies the window per client IP and answers 429 with a
// Retry-After header once the budget is spent.
func (wl *Window) Limit(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		allowed, resetAt := wl.Allow(r, clientIP(r))
		if !allowed {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			utils.RespondWithError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "too many requests, retry later")
			return
		}
		next(w, r, ps)
	}
}
