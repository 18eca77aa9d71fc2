package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"vortex/boleto"
	"vortex/cart"
	"vortex/kv"
	"vortex/models"
	"vortex/pix"
	"vortex/utils"
)

// Service drives the three-step checkout wizard. Sessions live in the
// key-value store under checkout:{userID}; step 3 is terminal.
type Service struct {
	store kv.Store
	carts *cart.Service

	// Injectable for deterministic tests.
	now         func() time.Time
	orderRef    func() string
	pixKey      func() string
	nossoNumero func() string
}

func NewService(store kv.Store, carts *cart.Service) *Service {
	return &Service{
		store: store,
		carts: carts,
		now:   time.Now,
		orderRef: func() string {
			return "VTX-" + utils.GenerateRandomDigitString(8)
		},
		pixKey: utils.GetUUID,
		nossoNumero: func() string {
			return utils.GenerateRandomDigitString(11)
		},
	}
}

func sessionKey(userID string) string { return "checkout:" + userID }

func (s *Service) load(ctx context.Context, userID string) (*models.CheckoutSession, *utils.APIError) {
	raw, ok, err := s.store.Get(ctx, sessionKey(userID))
	if err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not load checkout session")
	}
	if !ok {
		return nil, utils.NewAPIError(http.StatusNotFound, "VALIDATION_ERROR", "no open checkout session")
	}
	var sess models.CheckoutSession
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "corrupt checkout session")
	}
	return &sess, nil
}

func (s *Service) save(ctx context.Context, sess *models.CheckoutSession) *utils.APIError {
	sess.UpdatedAt = s.now()
	raw, err := json.Marshal(sess)
	if err != nil {
		return utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not encode checkout session")
	}
	if err := s.store.Set(ctx, sessionKey(sess.UserID), string(raw)); err != nil {
		return utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not save checkout session")
	}
	return nil
}

// Open starts a fresh session at step 1. Reopening always resets: any
// partially filled session is discarded.
func (s *Service) Open(ctx context.Context, userID string) (*models.CheckoutSession, *utils.APIError) {
	sess := &models.CheckoutSession{
		UserID:    userID,
		Step:      models.StepCustomerData,
		CreatedAt: s.now(),
	}
	if apiErr := s.save(ctx, sess); apiErr != nil {
		return nil, apiErr
	}
	return sess, nil
}

// Current returns the open session without mutating it.
func (s *Service) Current(ctx context.Context, userID string) (*models.CheckoutSession, *utils.APIError) {
	return s.load(ctx, userID)
}

// SubmitCustomerData validates the step-1 form and advances to step 2.
func (s *Service) SubmitCustomerData(ctx context.Context, userID string, data models.CustomerData) (*models.CheckoutSession, *utils.APIError) {
	sess, apiErr := s.load(ctx, userID)
	if apiErr != nil {
		return nil, apiErr
	}
	if sess.Step != models.StepCustomerData {
		return nil, utils.NewAPIError(http.StatusConflict, "VALIDATION_ERROR", "checkout is past the customer data step")
	}
	if apiErr := ValidateCustomerData(data); apiErr != nil {
		return nil, apiErr
	}
	sess.Customer = data
	sess.Step = models.StepPayment
	if apiErr := s.save(ctx, sess); apiErr != nil {
		return nil, apiErr
	}
	return sess, nil
}

// ConfirmPayment validates the chosen method at step 2, generates the
// order reference and the method's payment artifact from the cart total,
// and advances to the terminal step 3.
func (s *Service) ConfirmPayment(ctx context.Context, userID, method string, card *models.CardData) (*models.CheckoutSession, *utils.APIError) {
	sess, apiErr := s.load(ctx, userID)
	if apiErr != nil {
		return nil, apiErr
	}
	if sess.Step != models.StepPayment {
		return nil, utils.NewAPIError(http.StatusConflict, "VALIDATION_ERROR", "checkout is not at the payment step")
	}

	items, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not load cart")
	}
	if len(items) == 0 {
		return nil, utils.NewAPIError(http.StatusBadRequest, "EMPTY_CART", "cart is empty")
	}
	total := cart.Total(items)

	switch method {
	case models.MethodPix:
		// A uuid key keeps the payload's fixed 36-char inner TLV honest;
		// the payee label is the first item in the cart.
		payload := pix.BuildPayload(s.pixKey(), total, items[0].Name)
		sess.PixPayload = payload
		sess.PixQrCodeURL = pix.QRImageURL(payload)
	case models.MethodBoleto:
		slip := boleto.Generate(total, s.now(), s.nossoNumero())
		sess.BoletoLine = slip.LinhaDigitavel
	case models.MethodCreditCard:
		if card == nil {
			return nil, utils.NewAPIError(http.StatusBadRequest, "CARD_DATA_REQUIRED", "card data is required for credit card payments")
		}
		if apiErr := ValidateCardData(*card, s.now()); apiErr != nil {
			return nil, apiErr
		}
		card.Brand = DetectCardBrand(card.Number)
		sess.Card = *card
	default:
		return nil, utils.NewAPIError(http.StatusBadRequest, "INVALID_METHOD", "unsupported payment method: "+method)
	}

	sess.PaymentMethod = method
	sess.OrderID = s.orderRef()
	sess.Step = models.StepConfirmation
	if apiErr := s.save(ctx, sess); apiErr != nil {
		return nil, apiErr
	}
	return sess, nil
}

// Conclude finishes a completed checkout: the cart is emptied and the
// session removed. Only valid from step 3.
func (s *Service) Conclude(ctx context.Context, userID string) *utils.APIError {
	sess, apiErr := s.load(ctx, userID)
	if apiErr != nil {
		return apiErr
	}
	if sess.Step != models.StepConfirmation {
		return utils.NewAPIError(http.StatusConflict, "VALIDATION_ERROR", "checkout is not complete")
	}
	if err := s.carts.Clear(ctx, userID); err != nil {
		return utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not clear cart")
	}
	if err := s.store.Del(ctx, sessionKey(userID)); err != nil {
		return utils.NewAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not close checkout session")
	}
	return nil
}
