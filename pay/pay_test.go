package pay

import (
	"context"
	"strings"
	"testing"
	"time"

	"vortex/cart"
	"vortex/kv"
	"vortex/models"
	"vortex/orders"
	"vortex/products"
)

const testPixKey = "123e4567-e89b-12d3-a456-426614174000"

func newTestService(t *testing.T) (*Service, *orders.Service, *cart.Service, *products.Service) {
	t.Helper()
	store := kv.NewMemory()
	carts := cart.NewService(store)
	catalog := products.NewService(store)
	orderSvc := orders.NewService(store, carts, catalog)

	svc := NewService(store, orderSvc)
	svc.now = func() time.Time {
		return time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	}
	seq := 0
	svc.newID = func() string {
		seq++
		return "pay-" + string(rune('a'+seq-1))
	}
	svc.newPixKey = func() string { return testPixKey }
	svc.nossoNumero = func() string { return "12345678901" }
	return svc, orderSvc, carts, catalog
}

// One Mouse at 100: subtotal 100, tax 10, shipping 29.90, total 139.90.
func createPendingOrder(t *testing.T, orderSvc *orders.Service, carts *cart.Service, catalog *products.Service) *models.Order {
	t.Helper()
	ctx := context.Background()
	if _, apiErr := catalog.Create(ctx, models.Product{ProductID: "p1", Name: "Mouse", Price: 100, Category: "Periféricos", Stock: 10}); apiErr != nil {
		t.Fatalf("create product: %v", apiErr)
	}
	if _, err := carts.Add(ctx, "u1", models.CartItem{ProductID: "p1", Quantity: 1, Price: 100, Name: "Mouse"}); err != nil {
		t.Fatalf("fill cart: %v", err)
	}
	o, apiErr := orderSvc.Create(ctx, "u1", models.MethodPix, models.Address{}, models.Address{})
	if apiErr != nil {
		t.Fatalf("create order: %v", apiErr)
	}
	return o
}

func TestGeneratePix(t *testing.T) {
	svc, orderSvc, carts, catalog := newTestService(t)
	o := createPendingOrder(t, orderSvc, carts, catalog)
	ctx := context.Background()

	p, apiErr := svc.GeneratePix(ctx, o.OrderID)
	if apiErr != nil {
		t.Fatalf("generate: %v", apiErr)
	}
	if p.Status != models.PayPending {
		t.Errorf("status = %s, want pending", p.Status)
	}
	if p.Amount != o.Total {
		t.Errorf("amount = %v, want the order total %v", p.Amount, o.Total)
	}
	if !strings.HasPrefix(p.PixCode, "000201") || !strings.HasSuffix(p.PixCode[:len(p.PixCode)-4], "6304") {
		t.Errorf("pix code malformed: %q", p.PixCode)
	}
	if !strings.Contains(p.PixCode, "5406139.90") {
		t.Errorf("pix code must carry the order total, got %q", p.PixCode)
	}
	if !strings.Contains(p.PixQrCode, "qrserver.com") {
		t.Errorf("QR url = %q", p.PixQrCode)
	}

	byOrder, apiErr := svc.GetByOrderID(ctx, o.OrderID)
	if apiErr != nil {
		t.Fatalf("get by order: %v", apiErr)
	}
	if byOrder.PaymentID != p.PaymentID {
		t.Errorf("order link resolves to %s, want %s", byOrder.PaymentID, p.PaymentID)
	}
}

func TestGeneratePixKeyAndMerchant(t *testing.T) {
	svc, orderSvc, carts, catalog := newTestService(t)
	o := createPendingOrder(t, orderSvc, carts, catalog)

	p, apiErr := svc.GeneratePix(context.Background(), o.OrderID)
	if apiErr != nil {
		t.Fatalf("generate: %v", apiErr)
	}
	if len(p.PixKey) != 36 {
		t.Fatalf("pix key length = %d, want 36", len(p.PixKey))
	}
	// The inner key TLV declares 36 chars; the key stored right after
	// the declaration must fill them exactly.
	marker := "0136"
	i := strings.Index(p.PixCode, marker)
	if i < 0 {
		t.Fatalf("no key TLV in %q", p.PixCode)
	}
	if got := p.PixCode[i+len(marker) : i+len(marker)+36]; got != p.PixKey {
		t.Errorf("declared key = %q, want %q", got, p.PixKey)
	}
	// Payee label is the order's first item.
	if !strings.Contains(p.PixCode, "5905Mouse") {
		t.Errorf("merchant segment missing, got %q", p.PixCode)
	}
}

func TestGeneratePixUnknownOrder(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, apiErr := svc.GeneratePix(context.Background(), "nope")
	if apiErr == nil || apiErr.Code != "ORDER_NOT_FOUND" {
		t.Errorf("expected ORDER_NOT_FOUND, got %v", apiErr)
	}
}

func TestLatestPaymentWins(t *testing.T) {
	svc, orderSvc, carts, catalog := newTestService(t)
	o := createPendingOrder(t, orderSvc, carts, catalog)
	ctx := context.Background()

	if _, apiErr := svc.GeneratePix(ctx, o.OrderID); apiErr != nil {
		t.Fatalf("first: %v", apiErr)
	}
	second, apiErr := svc.GenerateBoleto(ctx, o.OrderID)
	if apiErr != nil {
		t.Fatalf("second: %v", apiErr)
	}

	current, apiErr := svc.GetByOrderID(ctx, o.OrderID)
	if apiErr != nil {
		t.Fatalf("get: %v", apiErr)
	}
	if current.PaymentID != second.PaymentID || current.Method != models.MethodBoleto {
		t.Errorf("latest payment must win, got %+v", current)
	}
}

func TestProcessCreditCardApproved(t *testing.T) {
	svc, orderSvc, carts, catalog := newTestService(t)
	o := createPendingOrder(t, orderSvc, carts, catalog)
	svc.rng = func() float64 { return 0.99 } // above the decline band

	card := models.CardData{Number: "4111111111111111", Holder: "MARIA", Expiry: "12/99", CVV: "123"}
	p, apiErr := svc.ProcessCreditCard(context.Background(), o.OrderID, card)
	if apiErr != nil {
		t.Fatalf("process: %v", apiErr)
	}
	if p.Status != models.PayCompleted {
		t.Errorf("status = %s, want completed", p.Status)
	}
	if p.Amount != o.Total {
		t.Errorf("amount = %v, want the order total %v", p.Amount, o.Total)
	}
	if !strings.HasPrefix(p.TransactionID, "TXN") {
		t.Errorf("transaction id = %q", p.TransactionID)
	}
	if p.CardLast4 != "1111" {
		t.Errorf("cardLast4 = %q", p.CardLast4)
	}
	if p.CompletedAt == nil {
		t.Error("completedAt must be stamped")
	}

	updated, apiErr := orderSvc.Get(context.Background(), o.OrderID, "u1", "customer")
	if apiErr != nil {
		t.Fatalf("get order: %v", apiErr)
	}
	if updated.PaymentStatus != models.PaymentStatusPaid {
		t.Errorf("order payment status = %s, want paid", updated.PaymentStatus)
	}
}

func TestProcessCreditCardDeclined(t *testing.T) {
	svc, orderSvc, carts, catalog := newTestService(t)
	o := createPendingOrder(t, orderSvc, carts, catalog)
	svc.rng = func() float64 { return 0.01 } // inside the decline band

	card := models.CardData{Number: "4111111111111111", Holder: "MARIA", Expiry: "12/99", CVV: "123"}
	p, apiErr := svc.ProcessCreditCard(context.Background(), o.OrderID, card)
	if apiErr != nil {
		t.Fatalf("process: %v", apiErr)
	}
	if p.Status != models.PayFailed {
		t.Errorf("status = %s, want failed", p.Status)
	}
	if p.TransactionID != "" {
		t.Errorf("declined payment must not carry a transaction id, got %q", p.TransactionID)
	}

	updated, apiErr := orderSvc.Get(context.Background(), o.OrderID, "u1", "customer")
	if apiErr != nil {
		t.Fatalf("get order: %v", apiErr)
	}
	if updated.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("declined payment must leave the order pending, got %s", updated.PaymentStatus)
	}
}

func TestProcessCreditCardLuhnReject(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	card := models.CardData{Number: "4111111111111112", Holder: "MARIA", Expiry: "12/99", CVV: "123"}
	_, apiErr := svc.ProcessCreditCard(context.Background(), "order-1", card)
	if apiErr == nil || apiErr.Code != "INVALID_CARD" {
		t.Errorf("expected INVALID_CARD, got %v", apiErr)
	}
}

func TestGenerateBoletoArtifacts(t *testing.T) {
	svc, orderSvc, carts, catalog := newTestService(t)
	o := createPendingOrder(t, orderSvc, carts, catalog)

	p, apiErr := svc.GenerateBoleto(context.Background(), o.OrderID)
	if apiErr != nil {
		t.Fatalf("generate: %v", apiErr)
	}
	if p.Amount != o.Total {
		t.Errorf("amount = %v, want the order total %v", p.Amount, o.Total)
	}
	if strings.Count(p.BoletoLine, " ") != 4 {
		t.Errorf("linha digitável = %q", p.BoletoLine)
	}
	if p.BoletoImage != "https://barcodeapi.org/api/128/"+p.BoletoBarcode {
		t.Errorf("barcode image url = %q", p.BoletoImage)
	}
	if !strings.HasPrefix(p.BoletoURL, "https://boleto.vortextech.com/") {
		t.Errorf("slip url = %q", p.BoletoURL)
	}
}

func TestProcessDispatch(t *testing.T) {
	svc, orderSvc, carts, catalog := newTestService(t)
	o := createPendingOrder(t, orderSvc, carts, catalog)
	ctx := context.Background()

	p, apiErr := svc.Process(ctx, o.OrderID, models.MethodBoleto, nil)
	if apiErr != nil {
		t.Fatalf("dispatch boleto: %v", apiErr)
	}
	if p.Method != models.MethodBoleto {
		t.Errorf("method = %s, want boleto", p.Method)
	}

	// No method in the request: the order's chosen method decides.
	p, apiErr = svc.Process(ctx, o.OrderID, "", nil)
	if apiErr != nil {
		t.Fatalf("dispatch default: %v", apiErr)
	}
	if p.Method != models.MethodPix {
		t.Errorf("method = %s, want the order's pix", p.Method)
	}

	if _, apiErr := svc.Process(ctx, o.OrderID, models.MethodCreditCard, nil); apiErr == nil || apiErr.Code != "CARD_DATA_REQUIRED" {
		t.Errorf("expected CARD_DATA_REQUIRED, got %v", apiErr)
	}
	if _, apiErr := svc.Process(ctx, o.OrderID, "bitcoin", nil); apiErr == nil || apiErr.Code != "INVALID_METHOD" {
		t.Errorf("expected INVALID_METHOD, got %v", apiErr)
	}
}

func TestConfirmPix(t *testing.T) {
	svc, orderSvc, carts, catalog := newTestService(t)
	o := createPendingOrder(t, orderSvc, carts, catalog)
	ctx := context.Background()

	p, apiErr := svc.GeneratePix(ctx, o.OrderID)
	if apiErr != nil {
		t.Fatalf("generate: %v", apiErr)
	}
	confirmed, apiErr := svc.ConfirmPix(ctx, p.PaymentID)
	if apiErr != nil {
		t.Fatalf("confirm: %v", apiErr)
	}
	if confirmed.Status != models.PayCompleted || !strings.HasPrefix(confirmed.TransactionID, "PIX") {
		t.Errorf("confirmed payment = %+v", confirmed)
	}

	updated, apiErr := orderSvc.Get(ctx, o.OrderID, "u1", "customer")
	if apiErr != nil {
		t.Fatalf("get order: %v", apiErr)
	}
	if updated.PaymentStatus != models.PaymentStatusPaid || updated.Status != models.OrderProcessing {
		t.Errorf("order after pix confirm = %s/%s", updated.Status, updated.PaymentStatus)
	}
}

func TestConfirmPixWrongMethod(t *testing.T) {
	svc, orderSvc, carts, catalog := newTestService(t)
	o := createPendingOrder(t, orderSvc, carts, catalog)
	ctx := context.Background()

	p, apiErr := svc.GenerateBoleto(ctx, o.OrderID)
	if apiErr != nil {
		t.Fatalf("generate: %v", apiErr)
	}
	_, apiErr = svc.ConfirmPix(ctx, p.PaymentID)
	if apiErr == nil || apiErr.Code != "INVALID_METHOD" {
		t.Errorf("expected INVALID_METHOD, got %v", apiErr)
	}
}

func TestGetByOrderIDMissing(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, apiErr := svc.GetByOrderID(context.Background(), "nope")
	if apiErr == nil || apiErr.Code != "PAYMENT_NOT_FOUND" {
		t.Errorf("expected PAYMENT_NOT_FOUND, got %v", apiErr)
	}
}

func TestLuhn(t *testing.T) {
	valid := []string{"4111111111111111", "5500000000000004", "340000000000009"}
	for _, n := range valid {
		if !luhnValid(n) {
			t.Errorf("luhnValid(%s) = false, want true", n)
		}
	}
	invalid := []string{"4111111111111112", "1234567890123", "abcd111111111111"}
	for _, n := range invalid {
		if luhnValid(n) {
			t.Errorf("luhnValid(%s) = true, want false", n)
		}
	}
}
