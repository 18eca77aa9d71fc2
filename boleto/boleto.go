// Package boleto produces mock bank-slip codes: a barcode digit string and
// the human-typable "linha digitável". The check digit is a simplified
// mod-9 stand-in for the Febraban mod-11 algorithm; the bank/agency block
// is a fixed filler. Cosmetic only, same as the storefront it mocks.
package boleto

import (
	"strconv"
	"strings"
	"time"
)

// fatorEpoch is the fixed reference date boleto due-date factors count from.
var fatorEpoch = time.Date(1997, time.October, 7, 0, 0, 0, 0, time.UTC)

const (
	bankSegment = "3419" // bank 341 + currency 9
	fillerBlock = "179001010435100479102015000"
	dueDays     = 3
)

type Slip struct {
	Amount          float64
	DueDate         time.Time
	FatorVencimento string
	ValorFormatado  string
	NossoNumero     string
	DV              int
	CodigoBarras    string
	LinhaDigitavel  string
}

// Generate builds the slip for an amount. now anchors the due date
// (now + 3 calendar days); nossoNumero is an 11-digit mock reference the
// caller supplies so tests stay deterministic.
func Generate(amount float64, now time.Time, nossoNumero string) Slip {
	due := now.AddDate(0, 0, dueDays)

	fator := strconv.Itoa(int(due.Sub(fatorEpoch).Hours() / 24))
	valor := FormatAmount(amount)

	base := bankSegment + fator + valor + nossoNumero
	dv := digitSum(base)%9 + 1

	barras := bankSegment + strconv.Itoa(dv) + fator + valor + fillerBlock
	linha := barras[0:5] + "." + barras[5:10] +
		" " + barras[10:15] + "." + barras[15:21] +
		" " + barras[21:26] + "." + barras[26:32] +
		" " + strconv.Itoa(dv) +
		" " + fator + valor

	return Slip{
		Amount:          amount,
		DueDate:         due,
		FatorVencimento: fator,
		ValorFormatado:  valor,
		NossoNumero:     nossoNumero,
		DV:              dv,
		CodigoBarras:    barras,
		LinhaDigitavel:  linha,
	}
}

// FormatAmount renders the amount with two decimals, drops the decimal
// point and left-pads with zeros to 10 digits: 119.90 -> "0000011990".
func FormatAmount(amount float64) string {
	s := strings.Replace(strconv.FormatFloat(amount, 'f', 2, 64), ".", "", 1)
	if len(s) < 10 {
		s = strings.Repeat("0", 10-len(s)) + s
	}
	return s
}

func digitSum(s string) int {
	sum := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sum += int(r - '0')
		}
	}
	return sum
}

// BarcodeImageURL returns the external Code-128 rendering endpoint for the
// slip digits. Failures degrade to a missing image only.
func BarcodeImageURL(digits string) string {
	return "https://barcodeapi.org/api/128/" + digits
}
