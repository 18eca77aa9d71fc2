package checkout

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"vortex/models"
	"vortex/utils"
)

// Validation rules mirror the storefront checkout form, including its
// uppercase Portuguese messages. First failing rule wins.

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
var expiryRe = regexp.MustCompile(`^\d{2}/\d{2}$`)
// Go's RE2 engine has no backreferences, so `^(\d)\1{10}$` is spelled
// out as an alternation over each repeated digit.
var repeatedCPFRe = regexp.MustCompile(`^(0{11}|1{11}|2{11}|3{11}|4{11}|5{11}|6{11}|7{11}|8{11}|9{11})$`)

func validationError(message string) *utils.APIError {
	return utils.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", message)
}

// ValidCPF enforces length and the all-identical-digits rejection only.
// The real CPF checksum is deliberately not implemented; "123.456.789-09"
// passes here whether or not it is a genuine CPF.
func ValidCPF(cpf string) bool {
	cleaned := utils.DigitsOnly(cpf)
	if len(cleaned) != 11 {
		return false
	}
	return !repeatedCPFRe.MatchString(cleaned)
}

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidateCustomerData runs the six step-1 gates in order.
func ValidateCustomerData(c models.CustomerData) *utils.APIError {
	if strings.TrimSpace(c.FullName) == "" {
		return validationError("NOME COMPLETO OBRIGATÓRIO")
	}
	if !ValidEmail(c.Email) {
		return validationError("EMAIL INVÁLIDO")
	}
	if !ValidCPF(c.CPF) {
		return validationError("CPF INVÁLIDO")
	}
	if len(utils.DigitsOnly(c.Phone)) < 10 {
		return validationError("TELEFONE INVÁLIDO")
	}
	if c.ZipCode == "" || c.Street == "" || c.Number == "" {
		return validationError("ENDEREÇO INCOMPLETO")
	}
	if c.City == "" || c.State == "" {
		return validationError("CIDADE E ESTADO OBRIGATÓRIOS")
	}
	return nil
}

// ValidateCardData runs the step-2 card gates. Expiry is compared at
// month granularity: MM/YY resolves to the first of that month, so a card
// expiring in the current month counts as expired.
func ValidateCardData(card models.CardData, now time.Time) *utils.APIError {
	number := strings.ReplaceAll(card.Number, " ", "")
	if len(number) < 13 || len(number) > 19 {
		return validationError("NÚMERO DO CARTÃO INVÁLIDO")
	}
	if strings.TrimSpace(card.Holder) == "" {
		return validationError("NOME NO CARTÃO OBRIGATÓRIO")
	}
	if !expiryRe.MatchString(card.Expiry) {
		return validationError("VALIDADE INVÁLIDA (MM/AA)")
	}
	parts := strings.SplitN(card.Expiry, "/", 2)
	month, _ := strconv.Atoi(parts[0])
	year, _ := strconv.Atoi(parts[1])
	expiry := time.Date(2000+year, time.Month(month), 1, 0, 0, 0, 0, now.Location())
	if expiry.Before(now) {
		return validationError("CARTÃO VENCIDO")
	}
	if len(card.CVV) < 3 {
		return validationError("CVV INVÁLIDO")
	}
	return nil
}

// Brand table, tested in order; first match wins. Display only.
var cardBrands = []struct {
	name string
	re   *regexp.Regexp
}{
	{"visa", regexp.MustCompile(`^4[0-9]{12}(?:[0-9]{3})?$`)},
	{"mastercard", regexp.MustCompile(`^5[1-5][0-9]{14}$`)},
	{"amex", regexp.MustCompile(`^3[47][0-9]{13}$`)},
	{"elo", regexp.MustCompile(`^((((636368)|(438935)|(504175)|(451416)|(636297))\d{0,10})|((5067)|(4576)|(4011))\d{0,12})$`)},
}

// DetectCardBrand matches the digit string against the brand table.
func DetectCardBrand(cardNumber string) string {
	cleaned := strings.ReplaceAll(cardNumber, " ", "")
	for _, b := range cardBrands {
		if b.re.MatchString(cleaned) {
			return b.name
		}
	}
	return "unknown"
}
