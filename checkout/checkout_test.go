package checkout

import (
	"context"
	"strings"
	"testing"
	"time"

	"vortex/cart"
	"vortex/kv"
	"vortex/models"
)

func newTestService(t *testing.T) (*Service, *cart.Service, kv.Store) {
	t.Helper()
	store := kv.NewMemory()
	carts := cart.NewService(store)
	svc := NewService(store, carts)
	svc.now = func() time.Time {
		return time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	}
	svc.orderRef = func() string { return "VTX-00000001" }
	svc.pixKey = func() string { return "123e4567-e89b-12d3-a456-426614174000" }
	svc.nossoNumero = func() string { return "12345678901" }
	return svc, carts, store
}

func fillCart(t *testing.T, carts *cart.Service, userID string) {
	t.Helper()
	_, err := carts.Add(context.Background(), userID, models.CartItem{
		ProductID: "p1", Quantity: 2, Price: 100, Name: "Mouse",
	})
	if err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	_, err = carts.Add(context.Background(), userID, models.CartItem{
		ProductID: "p2", Quantity: 1, Price: 50, Name: "Cabo",
	})
	if err != nil {
		t.Fatalf("seed cart: %v", err)
	}
}

func advanceToPayment(t *testing.T, svc *Service, userID string) {
	t.Helper()
	ctx := context.Background()
	if _, apiErr := svc.Open(ctx, userID); apiErr != nil {
		t.Fatalf("open: %v", apiErr)
	}
	if _, apiErr := svc.SubmitCustomerData(ctx, userID, validCustomer()); apiErr != nil {
		t.Fatalf("submit customer data: %v", apiErr)
	}
}

func TestOpenStartsAtStepOne(t *testing.T) {
	svc, _, _ := newTestService(t)
	sess, apiErr := svc.Open(context.Background(), "u1")
	if apiErr != nil {
		t.Fatalf("open: %v", apiErr)
	}
	if sess.Step != models.StepCustomerData {
		t.Errorf("step = %d, want 1", sess.Step)
	}
}

func TestSubmitCustomerDataAdvances(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, apiErr := svc.Open(ctx, "u1"); apiErr != nil {
		t.Fatalf("open: %v", apiErr)
	}
	sess, apiErr := svc.SubmitCustomerData(ctx, "u1", validCustomer())
	if apiErr != nil {
		t.Fatalf("submit: %v", apiErr)
	}
	if sess.Step != models.StepPayment {
		t.Errorf("step = %d, want 2", sess.Step)
	}
	if sess.Customer.FullName != "Maria Silva" {
		t.Errorf("customer not stored: %+v", sess.Customer)
	}
}

func TestSubmitCustomerDataRejectsInvalid(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, apiErr := svc.Open(ctx, "u1"); apiErr != nil {
		t.Fatalf("open: %v", apiErr)
	}
	bad := validCustomer()
	bad.CPF = "11111111111"
	if _, apiErr := svc.SubmitCustomerData(ctx, "u1", bad); apiErr == nil {
		t.Fatal("invalid CPF must block the transition")
	}

	sess, apiErr := svc.Current(ctx, "u1")
	if apiErr != nil {
		t.Fatalf("current: %v", apiErr)
	}
	if sess.Step != models.StepCustomerData {
		t.Errorf("failed validation must not advance, step = %d", sess.Step)
	}
}

func TestConfirmPaymentPix(t *testing.T) {
	svc, carts, _ := newTestService(t)
	fillCart(t, carts, "u1")
	advanceToPayment(t, svc, "u1")

	sess, apiErr := svc.ConfirmPayment(context.Background(), "u1", models.MethodPix, nil)
	if apiErr != nil {
		t.Fatalf("confirm: %v", apiErr)
	}
	if sess.Step != models.StepConfirmation {
		t.Errorf("step = %d, want 3", sess.Step)
	}
	if sess.OrderID != "VTX-00000001" {
		t.Errorf("orderID = %q", sess.OrderID)
	}
	if !strings.HasPrefix(sess.PixPayload, "000201") {
		t.Errorf("pix payload missing, got %q", sess.PixPayload)
	}
	// Cart total 250.00 under the plain display policy.
	if !strings.Contains(sess.PixPayload, "5406250.00") {
		t.Errorf("pix payload must carry the 250.00 cart total, got %q", sess.PixPayload)
	}
	// The key TLV declares 36 chars and the uuid key fills them exactly.
	if !strings.Contains(sess.PixPayload, "0136123e4567-e89b-12d3-a456-426614174000") {
		t.Errorf("pix payload must carry the 36-char key, got %q", sess.PixPayload)
	}
	// Payee label is the cart's first item.
	if !strings.Contains(sess.PixPayload, "5905Mouse") {
		t.Errorf("pix payload must name the first cart item, got %q", sess.PixPayload)
	}
	if sess.PixQrCodeURL == "" {
		t.Error("QR url missing")
	}
}

func TestConfirmPaymentBoleto(t *testing.T) {
	svc, carts, _ := newTestService(t)
	fillCart(t, carts, "u1")
	advanceToPayment(t, svc, "u1")

	sess, apiErr := svc.ConfirmPayment(context.Background(), "u1", models.MethodBoleto, nil)
	if apiErr != nil {
		t.Fatalf("confirm: %v", apiErr)
	}
	if sess.BoletoLine == "" {
		t.Fatal("boleto line missing")
	}
	if got := strings.Count(sess.BoletoLine, " "); got != 4 {
		t.Errorf("boleto line must have 5 space-separated groups, got %d separators", got)
	}
}

func TestConfirmPaymentCreditCard(t *testing.T) {
	svc, carts, _ := newTestService(t)
	fillCart(t, carts, "u1")
	advanceToPayment(t, svc, "u1")

	card := validCard()
	sess, apiErr := svc.ConfirmPayment(context.Background(), "u1", models.MethodCreditCard, &card)
	if apiErr != nil {
		t.Fatalf("confirm: %v", apiErr)
	}
	if sess.Card.Brand != "visa" {
		t.Errorf("brand = %q, want visa", sess.Card.Brand)
	}
}

func TestConfirmPaymentRequiresCardData(t *testing.T) {
	svc, carts, _ := newTestService(t)
	fillCart(t, carts, "u1")
	advanceToPayment(t, svc, "u1")

	_, apiErr := svc.ConfirmPayment(context.Background(), "u1", models.MethodCreditCard, nil)
	if apiErr == nil || apiErr.Code != "CARD_DATA_REQUIRED" {
		t.Errorf("expected CARD_DATA_REQUIRED, got %v", apiErr)
	}
}

func TestConfirmPaymentEmptyCart(t *testing.T) {
	svc, _, _ := newTestService(t)
	advanceToPayment(t, svc, "u1")

	_, apiErr := svc.ConfirmPayment(context.Background(), "u1", models.MethodPix, nil)
	if apiErr == nil || apiErr.Code != "EMPTY_CART" {
		t.Errorf("expected EMPTY_CART, got %v", apiErr)
	}
}

func TestConfirmPaymentUnknownMethod(t *testing.T) {
	svc, carts, _ := newTestService(t)
	fillCart(t, carts, "u1")
	advanceToPayment(t, svc, "u1")

	_, apiErr := svc.ConfirmPayment(context.Background(), "u1", "bitcoin", nil)
	if apiErr == nil || apiErr.Code != "INVALID_METHOD" {
		t.Errorf("expected INVALID_METHOD, got %v", apiErr)
	}
}

func TestStepThreeIsTerminal(t *testing.T) {
	svc, carts, _ := newTestService(t)
	fillCart(t, carts, "u1")
	advanceToPayment(t, svc, "u1")
	ctx := context.Background()

	if _, apiErr := svc.ConfirmPayment(ctx, "u1", models.MethodPix, nil); apiErr != nil {
		t.Fatalf("confirm: %v", apiErr)
	}
	if _, apiErr := svc.SubmitCustomerData(ctx, "u1", validCustomer()); apiErr == nil {
		t.Error("customer data must be rejected once past step 1")
	}
	if _, apiErr := svc.ConfirmPayment(ctx, "u1", models.MethodPix, nil); apiErr == nil {
		t.Error("payment must be rejected once at step 3")
	}
}

func TestConcludeClearsCartAndSession(t *testing.T) {
	svc, carts, _ := newTestService(t)
	fillCart(t, carts, "u1")
	advanceToPayment(t, svc, "u1")
	ctx := context.Background()

	if _, apiErr := svc.ConfirmPayment(ctx, "u1", models.MethodPix, nil); apiErr != nil {
		t.Fatalf("confirm: %v", apiErr)
	}
	if apiErr := svc.Conclude(ctx, "u1"); apiErr != nil {
		t.Fatalf("conclude: %v", apiErr)
	}

	items, err := carts.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("cart get: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("cart must be empty after conclude, got %d items", len(items))
	}
	if _, apiErr := svc.Current(ctx, "u1"); apiErr == nil {
		t.Error("session must be gone after conclude")
	}
}

func TestReopenResetsSession(t *testing.T) {
	svc, carts, _ := newTestService(t)
	fillCart(t, carts, "u1")
	advanceToPayment(t, svc, "u1")
	ctx := context.Background()

	if _, apiErr := svc.ConfirmPayment(ctx, "u1", models.MethodPix, nil); apiErr != nil {
		t.Fatalf("confirm: %v", apiErr)
	}

	sess, apiErr := svc.Open(ctx, "u1")
	if apiErr != nil {
		t.Fatalf("reopen: %v", apiErr)
	}
	if sess.Step != models.StepCustomerData {
		t.Errorf("reopen step = %d, want 1", sess.Step)
	}
	if sess.PaymentMethod != "" || sess.OrderID != "" || sess.PixPayload != "" || sess.BoletoLine != "" {
		t.Errorf("reopen must clear artifacts, got %+v", sess)
	}
}
