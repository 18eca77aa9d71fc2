package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"vortex/kv"
)

type cachedResponse struct {
	Status    int             `json:"status"`
	Body      json.RawMessage `json:"body"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// CacheResponse serves GET responses from the key-value store for ttl,
// keyed by request path. Only successful responses are cached; cache
// failures fall through to the handler.
func CacheResponse(store kv.Store, ttl time.Duration) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			if r.Method != http.MethodGet {
				next(w, r, ps)
				return
			}

			ctx := r.Context()
			cacheKey := "cache:" + r.URL.Path
			if raw, ok, err := store.Get(ctx, cacheKey); err == nil && ok {
				var cached cachedResponse
				if err := json.Unmarshal([]byte(raw), &cached); err == nil && time.Now().Before(cached.ExpiresAt) {
					w.Header().Set("Content-Type", "application/json")
					w.Header().Set("X-Cache", "HIT")
					w.WriteHeader(cached.Status)
					_, _ = w.Write(cached.Body)
					return
				}
			}

			crw := NewCaptureResponseWriter(w)
			crw.Header().Set("X-Cache", "MISS")
			next(crw, r, ps)

			if crw.Status() == http.StatusOK {
				cached := cachedResponse{
					Status:    crw.Status(),
					Body:      json.RawMessage(crw.BodyBytes()),
					ExpiresAt: time.Now().Add(ttl),
				}
				if raw, err := json.Marshal(cached); err == nil {
					_ = store.Set(ctx, cacheKey, string(raw))
				}
			}
		}
	}
}
