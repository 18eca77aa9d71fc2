// Package cep proxies Brazilian postal code lookups to viacep so the
// checkout form can autofill addresses.
package cep

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"vortex/utils"
)

const viacepURL = "https://viacep.com.br/ws/"

type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	Error        bool   `json:"erro,omitempty"`
}

type Handlers struct {
	client *http.Client
}

func NewHandlers() *Handlers {
	return &Handlers{client: &http.Client{Timeout: 5 * time.Second}}
}

// Lookup is best-effort: upstream failures return 502 and the form falls
// back to manual entry.
func (h *Handlers) Lookup(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	cep := utils.DigitsOnly(ps.ByName("cep"))
	if len(cep) != 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "CEP must have 8 digits")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, viacepURL+cep+"/json/", nil)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "could not build lookup request")
		return
	}
	resp, err := h.client.Do(req)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "INTERNAL_ERROR", "postal code service unavailable")
		return
	}
	defer resp.Body.Close()

	var addr Address
	if err := json.NewDecoder(resp.Body).Decode(&addr); err != nil || addr.Error {
		utils.RespondWithError(w, http.StatusNotFound, "VALIDATION_ERROR", "CEP not found")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, addr)
}
