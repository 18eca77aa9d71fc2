package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"vortex/kv"
	"vortex/utils"
)

const idempotencyTTL = 24 * time.Hour

type idempotencyRecord struct {
	Key         string          `json:"key"`
	Method      string          `json:"method"`
	Path        string          `json:"path"`
	UserID      string          `json:"userId"`
	RequestHash string          `json:"requestHash"`
	Status      int             `json:"status,omitempty"`
	Body        json.RawMessage `json:"body,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func computeRequestHash(r *http.Request, bodyBytes []byte, userID string) string {
	h := sha256.New()
	h.Write([]byte(r.Method + ":" + r.URL.Path + ":" + userID + ":"))
	h.Write(bodyBytes)
	return hex.EncodeToString(h.Sum(nil))
}

// CaptureResponseWriter wraps http.ResponseWriter to capture status and body.
type CaptureResponseWriter struct {
	w           http.ResponseWriter
	statusCode  int
	buf         bytes.Buffer
	wroteHeader bool
}

func NewCaptureResponseWriter(w http.ResponseWriter) *CaptureResponseWriter {
	return &CaptureResponseWriter{w: w, statusCode: http.StatusOK}
}

func (c *CaptureResponseWriter) Header() http.Header { return c.w.Header() }

func (c *CaptureResponseWriter) WriteHeader(statusCode int) {
	if !c.wroteHeader {
		c.statusCode = statusCode
		c.w.WriteHeader(statusCode)
		c.wroteHeader = true
	}
}

func (c *CaptureResponseWriter) Write(b []byte) (int, error) {
	c.buf.Write(b)
	return c.w.Write(b)
}

func (c *CaptureResponseWriter) Status() int       { return c.statusCode }
func (c *CaptureResponseWriter) BodyBytes() []byte { return c.buf.Bytes() }

// Idempotency gives mutating endpoints safe replay when the client sends
// an Idempotency-Key header:
//   - no header: pass-through.
//   - first request for a key: reserve it with SetNX, run the handler and
//     store the captured response.
//   - replay with the same key and same request hash: return the stored
//     response without running the handler.
//   - same key, different request hash: 409 Conflict.
//   - key reserved but response not yet stored (in-flight): let the
//     handler run; payment creation is idempotent at the store level.
func Idempotency(store kv.Store) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next(w, r, ps)
				return
			}

			userID := utils.GetUserIDFromRequest(r)

			bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
			if err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "failed to read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

			reqHash := computeRequestHash(r, bodyBytes, userID)
			rec := idempotencyRecord{
				Key:         key,
				Method:      r.Method,
				Path:        r.URL.Path,
				UserID:      userID,
				RequestHash: reqHash,
				CreatedAt:   time.Now(),
			}
			raw, _ := json.Marshal(rec)

			ctx := r.Context()
			storeKey := "idem:" + key
			inserted, err := store.SetNX(ctx, storeKey, string(raw), idempotencyTTL)
			if err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "idempotency lookup error")
				return
			}

			if inserted {
				crw := NewCaptureResponseWriter(w)
				next(crw, r, ps)

				rec.Status = crw.Status()
				rec.Body = json.RawMessage(crw.BodyBytes())
				if updated, err := json.Marshal(rec); err == nil {
					_ = store.Set(ctx, storeKey, string(updated))
				}
				return
			}

			existingRaw, ok, err := store.Get(ctx, storeKey)
			if err != nil || !ok {
				utils.RespondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "idempotency lookup error")
				return
			}
			var existing idempotencyRecord
			if err := json.Unmarshal([]byte(existingRaw), &existing); err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "idempotency lookup error")
				return
			}

			if existing.RequestHash != reqHash {
				utils.RespondWithError(w, http.StatusConflict, "VALIDATION_ERROR", "idempotency-key conflict")
				return
			}

			if existing.Status != 0 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(existing.Status)
				_, _ = w.Write(existing.Body)
				return
			}

			// In-flight request, let handler run.
			next(w, r, ps)
		}
	}
}
