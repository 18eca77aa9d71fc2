package boleto

import (
	"strings"
	"testing"
	"time"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{119.90, "0000011990"},
		{1.00, "0000000100"},
		{9999.99, "0000999999"},
		{0.50, "0000000050"},
	}
	for _, c := range cases {
		if got := FormatAmount(c.amount); got != c.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", c.amount, got, c.want)
		}
	}
}

func TestGenerateFixedInputs(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	slip := Generate(119.90, now, "12345678901")

	if !slip.DueDate.Equal(time.Date(2026, time.January, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("due date = %v, want 2026-01-04", slip.DueDate)
	}
	if slip.FatorVencimento != "10316" {
		t.Errorf("fatorVencimento = %q, want \"10316\"", slip.FatorVencimento)
	}
	if slip.ValorFormatado != "0000011990" {
		t.Errorf("valorFormatado = %q, want \"0000011990\"", slip.ValorFormatado)
	}
	// base digit sum 94, mod 9 = 4, +1 = 5
	if slip.DV != 5 {
		t.Errorf("dv = %d, want 5", slip.DV)
	}

	wantBarras := "34195" + "10316" + "0000011990" + "179001010435100479102015000"
	if slip.CodigoBarras != wantBarras {
		t.Errorf("codigoBarras = %q, want %q", slip.CodigoBarras, wantBarras)
	}

	wantLinha := "34195.10316 00000.119901 79001.010435 5 103160000011990"
	if slip.LinhaDigitavel != wantLinha {
		t.Errorf("linhaDigitavel = %q, want %q", slip.LinhaDigitavel, wantLinha)
	}
}

func TestLinhaDigitavelShape(t *testing.T) {
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	slip := Generate(42.50, now, "00000000001")

	groups := strings.Split(slip.LinhaDigitavel, " ")
	if len(groups) != 5 {
		t.Fatalf("linha digitável must have 5 space-separated groups, got %d: %q", len(groups), slip.LinhaDigitavel)
	}
	for i := 0; i < 3; i++ {
		if !strings.Contains(groups[i], ".") {
			t.Errorf("group %d must contain a dot, got %q", i, groups[i])
		}
	}
	if groups[4] != slip.FatorVencimento+slip.ValorFormatado {
		t.Errorf("tail group = %q, want fator+valor %q", groups[4], slip.FatorVencimento+slip.ValorFormatado)
	}
}

func TestCheckDigitRange(t *testing.T) {
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	for _, amount := range []float64{0.01, 10, 119.90, 500, 123456.78} {
		slip := Generate(amount, now, "98765432109")
		if slip.DV < 1 || slip.DV > 9 {
			t.Errorf("dv for amount %v = %d, want 1..9", amount, slip.DV)
		}
	}
}

func TestBarcodeImageURL(t *testing.T) {
	url := BarcodeImageURL("3419512345")
	if !strings.HasPrefix(url, "https://barcodeapi.org/api/128/") {
		t.Errorf("unexpected barcode URL %q", url)
	}
}
