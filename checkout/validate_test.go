package checkout

import (
	"testing"
	"time"

	"vortex/models"
)

func validCustomer() models.CustomerData {
	return models.CustomerData{
		FullName:     "Maria Silva",
		Email:        "maria@example.com",
		CPF:          "123.456.789-09",
		Phone:        "(11) 98765-4321",
		ZipCode:      "01310-100",
		Street:       "Avenida Paulista",
		Number:       "1000",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		State:        "SP",
	}
}

func TestValidateCustomerDataOK(t *testing.T) {
	if err := ValidateCustomerData(validCustomer()); err != nil {
		t.Fatalf("valid customer rejected: %v", err)
	}
}

func TestValidateCustomerDataRules(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*models.CustomerData)
		message string
	}{
		{"empty name", func(c *models.CustomerData) { c.FullName = "   " }, "NOME COMPLETO OBRIGATÓRIO"},
		{"bad email", func(c *models.CustomerData) { c.Email = "maria@invalid" }, "EMAIL INVÁLIDO"},
		{"short cpf", func(c *models.CustomerData) { c.CPF = "123456789" }, "CPF INVÁLIDO"},
		{"repeated cpf", func(c *models.CustomerData) { c.CPF = "11111111111" }, "CPF INVÁLIDO"},
		{"short phone", func(c *models.CustomerData) { c.Phone = "1234567" }, "TELEFONE INVÁLIDO"},
		{"no street", func(c *models.CustomerData) { c.Street = "" }, "ENDEREÇO INCOMPLETO"},
		{"no zip", func(c *models.CustomerData) { c.ZipCode = "" }, "ENDEREÇO INCOMPLETO"},
		{"no city", func(c *models.CustomerData) { c.City = "" }, "CIDADE E ESTADO OBRIGATÓRIOS"},
		{"no state", func(c *models.CustomerData) { c.State = "" }, "CIDADE E ESTADO OBRIGATÓRIOS"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data := validCustomer()
			c.mutate(&data)
			err := ValidateCustomerData(data)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if err.Message != c.message {
				t.Errorf("message = %q, want %q", err.Message, c.message)
			}
			if err.Code != "VALIDATION_ERROR" {
				t.Errorf("code = %q, want VALIDATION_ERROR", err.Code)
			}
		})
	}
}

// The CPF rule is length + repetition only, not the real checksum: a
// well-formed but arithmetically bogus CPF passes while repeated digits
// fail.
func TestCPFAsymmetry(t *testing.T) {
	if ValidCPF("11111111111") {
		t.Error("all-identical CPF must be rejected")
	}
	if !ValidCPF("12345678909") {
		t.Error("plausible 11-digit CPF must be accepted without checksum verification")
	}
	if !ValidCPF("123.456.789-09") {
		t.Error("formatting characters must be stripped before validation")
	}
}

func validCard() models.CardData {
	return models.CardData{
		Number: "4111 1111 1111 1111",
		Holder: "MARIA SILVA",
		Expiry: "12/99",
		CVV:    "123",
	}
}

func TestValidateCardDataOK(t *testing.T) {
	now := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	if err := ValidateCardData(validCard(), now); err != nil {
		t.Fatalf("valid card rejected: %v", err)
	}
}

func TestValidateCardDataRules(t *testing.T) {
	now := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		mutate  func(*models.CardData)
		message string
	}{
		{"short number", func(c *models.CardData) { c.Number = "411111111111" }, "NÚMERO DO CARTÃO INVÁLIDO"},
		{"no holder", func(c *models.CardData) { c.Holder = " " }, "NOME NO CARTÃO OBRIGATÓRIO"},
		{"bad expiry format", func(c *models.CardData) { c.Expiry = "2026-12" }, "VALIDADE INVÁLIDA (MM/AA)"},
		{"expired", func(c *models.CardData) { c.Expiry = "01/20" }, "CARTÃO VENCIDO"},
		{"short cvv", func(c *models.CardData) { c.CVV = "12" }, "CVV INVÁLIDO"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			card := validCard()
			c.mutate(&card)
			err := ValidateCardData(card, now)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if err.Message != c.message {
				t.Errorf("message = %q, want %q", err.Message, c.message)
			}
		})
	}
}

func TestExpiryYearWindow(t *testing.T) {
	now := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	card := validCard()
	card.Expiry = "01/20" // resolves to 2020, in the past
	if err := ValidateCardData(card, now); err == nil || err.Message != "CARTÃO VENCIDO" {
		t.Errorf("01/20 must be rejected as expired, got %v", err)
	}

	card.Expiry = "12/99" // resolves to 2099
	if err := ValidateCardData(card, now); err != nil {
		t.Errorf("12/99 must be accepted, got %v", err)
	}
}

func TestDetectCardBrand(t *testing.T) {
	cases := []struct {
		number string
		want   string
	}{
		{"4111111111111111", "visa"},
		{"4111 1111 1111 1111", "visa"},
		{"4222222222222", "visa"}, // 13-digit visa
		{"5500000000000004", "mastercard"},
		{"340000000000009", "amex"},
		{"370000000000002", "amex"},
		{"6363680000000000", "elo"},
		{"5067000000000000", "elo"},
		{"6011000000000004", "unknown"},
		{"1234", "unknown"},
	}
	for _, c := range cases {
		if got := DetectCardBrand(c.number); got != c.want {
			t.Errorf("DetectCardBrand(%q) = %q, want %q", c.number, got, c.want)
		}
	}
}
