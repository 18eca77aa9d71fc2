package pay

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"vortex/boleto"
	"vortex/kv"
	"vortex/models"
	"vortex/orders"
	"vortex/pix"
	"vortex/utils"
)

// Mock card gateway approves this fraction of Luhn-valid cards.
const approvalRate = 0.95

// Service owns payment records: payment:{id} plus an order:{orderID}:payment
// link. Regenerating a payment for the same order overwrites the link,
// latest write wins.
type Service struct {
	store  kv.Store
	orders *orders.Service

	now         func() time.Time
	rng         func() float64
	newID       func() string
	newPixKey   func() string
	nossoNumero func() string
}

func NewService(store kv.Store, orderSvc *orders.Service) *Service {
	return &Service{
		store:     store,
		orders:    orderSvc,
		now:       time.Now,
		rng:       rand.Float64,
		newID:     utils.GetUUID,
		newPixKey: utils.GetUUID,
		nossoNumero: func() string {
			return utils.GenerateRandomDigitString(11)
		},
	}
}

// orderFor loads the order a payment is created for. Amounts always come
// from the stored total, never from the client.
func (s *Service) orderFor(ctx context.Context, orderID string) (*models.Order, *utils.APIError) {
	return s.orders.Get(ctx, orderID, "", "admin")
}

// merchantLabel names the payee on the PIX payload after the order's
// first item.
func merchantLabel(o *models.Order) string {
	if len(o.Items) == 0 {
		return "VORTEX TECH"
	}
	return o.Items[0].Name
}

func paymentKey(id string) string { return "payment:" + id }

func orderPaymentKey(orderID string) string {
	return "order:" + orderID + ":payment"
}

func (s *Service) load(ctx context.Context, id string) (*models.Payment, *utils.APIError) {
	raw, ok, err := s.store.Get(ctx, paymentKey(id))
	if err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not load payment")
	}
	if !ok {
		return nil, utils.NewAPIError(http.StatusNotFound, "PAYMENT_NOT_FOUND", "payment not found: "+id)
	}
	var p models.Payment
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "corrupt payment record")
	}
	return &p, nil
}

func (s *Service) save(ctx context.Context, p *models.Payment) *utils.APIError {
	raw, err := json.Marshal(p)
	if err != nil {
		return utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not encode payment")
	}
	entries := map[string]string{
		paymentKey(p.PaymentID):    string(raw),
		orderPaymentKey(p.OrderID): p.PaymentID,
	}
	if err := s.store.MSet(ctx, entries); err != nil {
		return utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not store payment")
	}
	return nil
}

// GeneratePix creates a pending PIX payment with the full BR Code
// payload and its QR rendering URL. The key is a fresh uuid so the inner
// TLV's fixed 36-char length declaration holds.
func (s *Service) GeneratePix(ctx context.Context, orderID string) (*models.Payment, *utils.APIError) {
	o, apiErr := s.orderFor(ctx, orderID)
	if apiErr != nil {
		return nil, apiErr
	}
	key := s.newPixKey()
	payload := pix.BuildPayload(key, o.Total, merchantLabel(o))
	p := &models.Payment{
		PaymentID: s.newID(),
		OrderID:   orderID,
		Amount:    o.Total,
		Method:    models.MethodPix,
		Status:    models.PayPending,
		PixKey:    key,
		PixCode:   payload,
		PixQrCode: pix.QRImageURL(payload),
		CreatedAt: s.now(),
	}
	if apiErr := s.save(ctx, p); apiErr != nil {
		return nil, apiErr
	}
	log.Printf("pix payment generated: %s (order %s)", p.PaymentID, orderID)
	return p, nil
}

// ProcessCreditCard runs the mock gateway: Luhn check, then a simulated
// authorization that approves 95% of attempts. Both outcomes persist a
// payment record; only success marks the order paid.
func (s *Service) ProcessCreditCard(ctx context.Context, orderID string, card models.CardData) (*models.Payment, *utils.APIError) {
	number := strings.NewReplacer(" ", "", "-", "").Replace(card.Number)
	if !luhnValid(number) {
		return nil, utils.NewAPIError(http.StatusBadRequest, "INVALID_CARD", "card number failed validation")
	}
	o, apiErr := s.orderFor(ctx, orderID)
	if apiErr != nil {
		return nil, apiErr
	}

	now := s.now()
	approved := s.rng() > 1-approvalRate

	p := &models.Payment{
		PaymentID: s.newID(),
		OrderID:   orderID,
		Amount:    o.Total,
		Method:    models.MethodCreditCard,
		Status:    models.PayFailed,
		CardLast4: number[len(number)-4:],
		CreatedAt: now,
	}
	if approved {
		p.Status = models.PayCompleted
		p.TransactionID = fmt.Sprintf("TXN%d%s", now.UnixMilli(), strings.ToUpper(utils.GenerateRandomString(7)))
		p.CompletedAt = &now
	}
	if apiErr := s.save(ctx, p); apiErr != nil {
		return nil, apiErr
	}

	if approved {
		if _, apiErr := s.orders.UpdatePaymentStatus(ctx, orderID, models.PaymentStatusPaid); apiErr != nil {
			log.Printf("order %s payment status update failed: %v", orderID, apiErr)
		}
		log.Printf("credit card payment approved: %s (order %s)", p.PaymentID, orderID)
	} else {
		log.Printf("credit card payment declined: %s (order %s)", p.PaymentID, orderID)
	}
	return p, nil
}

// GenerateBoleto creates a pending boleto payment with barcode digits,
// linha digitável, a barcode image URL and a mock slip URL.
func (s *Service) GenerateBoleto(ctx context.Context, orderID string) (*models.Payment, *utils.APIError) {
	o, apiErr := s.orderFor(ctx, orderID)
	if apiErr != nil {
		return nil, apiErr
	}
	slip := boleto.Generate(o.Total, s.now(), s.nossoNumero())
	id := s.newID()
	p := &models.Payment{
		PaymentID:     id,
		OrderID:       orderID,
		Amount:        o.Total,
		Method:        models.MethodBoleto,
		Status:        models.PayPending,
		BoletoLine:    slip.LinhaDigitavel,
		BoletoBarcode: slip.CodigoBarras,
		BoletoImage:   boleto.BarcodeImageURL(slip.CodigoBarras),
		BoletoURL:     "https://boleto.vortextech.com/" + id,
		CreatedAt:     s.now(),
	}
	if apiErr := s.save(ctx, p); apiErr != nil {
		return nil, apiErr
	}
	log.Printf("boleto generated: %s (order %s)", p.PaymentID, orderID)
	return p, nil
}

// Process dispatches payment creation on the method. An empty method
// falls back to the one chosen on the order.
func (s *Service) Process(ctx context.Context, orderID, method string, card *models.CardData) (*models.Payment, *utils.APIError) {
	if method == "" {
		o, apiErr := s.orderFor(ctx, orderID)
		if apiErr != nil {
			return nil, apiErr
		}
		method = o.PaymentMethod
	}
	switch method {
	case models.MethodPix:
		return s.GeneratePix(ctx, orderID)
	case models.MethodCreditCard:
		if card == nil {
			return nil, utils.NewAPIError(http.StatusBadRequest, "CARD_DATA_REQUIRED", "card data is required for credit card payments")
		}
		return s.ProcessCreditCard(ctx, orderID, *card)
	case models.MethodBoleto:
		return s.GenerateBoleto(ctx, orderID)
	default:
		return nil, utils.NewAPIError(http.StatusBadRequest, "INVALID_METHOD", "unsupported payment method: "+method)
	}
}

// GetByOrderID follows the order link to the latest payment.
func (s *Service) GetByOrderID(ctx context.Context, orderID string) (*models.Payment, *utils.APIError) {
	id, ok, err := s.store.Get(ctx, orderPaymentKey(orderID))
	if err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not look up payment")
	}
	if !ok {
		return nil, utils.NewAPIError(http.StatusNotFound, "PAYMENT_NOT_FOUND", "no payment for order: "+orderID)
	}
	return s.load(ctx, id)
}

// Get returns a payment by its own id.
func (s *Service) Get(ctx context.Context, paymentID string) (*models.Payment, *utils.APIError) {
	return s.load(ctx, paymentID)
}

// ConfirmPix simulates the payer completing the PIX transfer: the
// payment completes with a PIX transaction id and the order is marked
// paid. Only valid for pix payments.
func (s *Service) ConfirmPix(ctx context.Context, paymentID string) (*models.Payment, *utils.APIError) {
	p, apiErr := s.load(ctx, paymentID)
	if apiErr != nil {
		return nil, apiErr
	}
	if p.Method != models.MethodPix {
		return nil, utils.NewAPIError(http.StatusBadRequest, "INVALID_METHOD", "payment is not pix")
	}

	now := s.now()
	p.Status = models.PayCompleted
	p.CompletedAt = &now
	p.TransactionID = fmt.Sprintf("PIX%d", now.UnixMilli())
	if apiErr := s.save(ctx, p); apiErr != nil {
		return nil, apiErr
	}

	if _, apiErr := s.orders.UpdatePaymentStatus(ctx, p.OrderID, models.PaymentStatusPaid); apiErr != nil {
		log.Printf("order %s payment status update failed: %v", p.OrderID, apiErr)
	}
	log.Printf("pix payment confirmed: %s", paymentID)
	return p, nil
}

// luhnValid implements the standard Luhn mod-10 check.
func luhnValid(number string) bool {
	if len(number) < 13 || len(number) > 19 {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
