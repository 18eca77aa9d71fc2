// Package emailer simulates the transactional mail provider: messages
// are logged and recorded in the key-value store instead of being sent.
package emailer

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"vortex/kv"
	"vortex/utils"
)

type Message struct {
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	Body     string    `json:"body"`
	Template string    `json:"template,omitempty"`
	SentAt   time.Time `json:"sentAt"`
}

type Service struct {
	store kv.Store
	now   func() time.Time
}

func NewService(store kv.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Send logs the message and keeps a copy under email:{id} for
// inspection. No mail leaves the process.
func (s *Service) Send(ctx context.Context, msg Message) (string, error) {
	msg.SentAt = s.now()
	id := utils.GetUUID()
	raw, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, "email:"+id, string(raw)); err != nil {
		return "", err
	}
	log.Printf("simulated email to %s: %s", msg.To, msg.Subject)
	return id, nil
}

type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

func (h *Handlers) SendEmail(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var msg Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON payload")
		return
	}
	if msg.To == "" || msg.Subject == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "to and subject are required")
		return
	}

	id, err := h.svc.Send(ctx, msg)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "could not record email")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, utils.M{"id": id, "simulated": true})
}
