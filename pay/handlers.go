package pay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"vortex/models"
	"vortex/utils"
)

type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

func (h *Handlers) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 10*time.Second)
}

// The amount is never part of the request: it always comes from the
// stored order total.
type paymentRequest struct {
	OrderID string           `json:"orderId"`
	Method  string           `json:"method,omitempty"`
	Card    *models.CardData `json:"card,omitempty"`
}

func decodePaymentRequest(w http.ResponseWriter, r *http.Request) (*paymentRequest, bool) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON payload")
		return nil, false
	}
	if req.OrderID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "orderId is required")
		return nil, false
	}
	return &req, true
}

func (h *Handlers) GeneratePix(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	req, ok := decodePaymentRequest(w, r)
	if !ok {
		return
	}
	p, apiErr := h.svc.GeneratePix(ctx, req.OrderID)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusCreated, p)
}

func (h *Handlers) ProcessCreditCard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	req, ok := decodePaymentRequest(w, r)
	if !ok {
		return
	}
	if req.Card == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "CARD_DATA_REQUIRED", "card data is required")
		return
	}
	p, apiErr := h.svc.ProcessCreditCard(ctx, req.OrderID, *req.Card)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusCreated, p)
}

func (h *Handlers) GenerateBoleto(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	req, ok := decodePaymentRequest(w, r)
	if !ok {
		return
	}
	p, apiErr := h.svc.GenerateBoleto(ctx, req.OrderID)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusCreated, p)
}

// Process is the method-dispatch endpoint: the body names the method (or
// leaves it to the order) and the service picks the generator.
func (h *Handlers) Process(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	req, ok := decodePaymentRequest(w, r)
	if !ok {
		return
	}
	p, apiErr := h.svc.Process(ctx, req.OrderID, req.Method, req.Card)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusCreated, p)
}

func (h *Handlers) GetByOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	p, apiErr := h.svc.GetByOrderID(ctx, ps.ByName("orderId"))
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, p)
}

func (h *Handlers) ConfirmPix(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	p, apiErr := h.svc.ConfirmPix(ctx, ps.ByName("id"))
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, p)
}

// PixQRImage renders the payment's BR Code as a PNG, generated locally
// instead of round-tripping through the external image service.
func (h *Handlers) PixQRImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	p, apiErr := h.svc.Get(ctx, ps.ByName("id"))
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	if p.Method != models.MethodPix {
		utils.RespondWithError(w, http.StatusBadRequest, "INVALID_METHOD", "payment is not pix")
		return
	}

	png, err := qrcode.Encode(p.PixCode, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "could not render QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// BoletoPDF renders a printable slip with the linha digitável and the
// barcode digits.
func (h *Handlers) BoletoPDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	p, apiErr := h.svc.Get(ctx, ps.ByName("id"))
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	if p.Method != models.MethodBoleto {
		utils.RespondWithError(w, http.StatusBadRequest, "INVALID_METHOD", "payment is not boleto")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "VORTEX TECH - Boleto Bancario")
	pdf.Ln(14)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Pedido: %s", p.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Valor: R$ %.2f", p.Amount))
	pdf.Ln(12)
	pdf.SetFont("Courier", "B", 12)
	pdf.Cell(0, 8, p.BoletoLine)
	pdf.Ln(10)
	pdf.SetFont("Courier", "", 9)
	pdf.Cell(0, 6, p.BoletoBarcode)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=boleto-%s.pdf", p.PaymentID))
	if err := pdf.Output(w); err != nil {
		http.Error(w, "could not render PDF", http.StatusInternalServerError)
	}
}
