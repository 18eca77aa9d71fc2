// Package pix assembles BR Code payment payloads for the mocked PIX flow.
// The layout follows the EMV TLV scheme closely enough to render a scannable
// string, but the trailing checksum is a simple rolling character sum, not
// the CRC-16/CCITT the real network uses. Both sides of the storefront rely
// on this exact arithmetic, so it must not be "fixed".
package pix

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	payloadFormatIndicator = "000201"
	merchantCategoryCode   = "52040000"
	transactionCurrency    = "5303986" // 986 = BRL
	countryCode            = "5802BR"
	merchantCity           = "6009SAO PAULO"
	additionalDataField    = "62070503***" // empty reference label
	crcTag                 = "6304"

	pixGUI = "0014br.gov.bcb.pix"

	maxMerchantName = 25
)

// tlv prefixes a value with its 2-digit length.
func tlv(val string) string {
	return fmt.Sprintf("%02d%s", len(val), val)
}

// BuildPayload assembles the full BR Code string for the given PIX key,
// amount and merchant name. The key must be 36 chars (a uuid): the inner
// TLV declares that length verbatim. Deterministic: same inputs, same
// payload.
func BuildPayload(key string, amount float64, merchantName string) string {
	valor := strconv.FormatFloat(amount, 'f', 2, 64)

	name := merchantName
	if r := []rune(name); len(r) > maxMerchantName {
		name = string(r[:maxMerchantName])
	}

	segments := []string{
		payloadFormatIndicator,
		"26" + tlv(pixGUI+"0136"+key),
		merchantCategoryCode,
		transactionCurrency,
		"54" + tlv(valor),
		countryCode,
		"59" + tlv(name),
		merchantCity,
		additionalDataField,
	}
	payload := strings.Join(segments, "")

	return payload + crcTag + Checksum(payload)
}

// Checksum computes the 4-hex-digit trailer: a 16-bit rolling sum of the
// character codes seeded with 0xFFFF. ORing with 0x10000 before hex
// formatting forces a leading digit that is then dropped, so the result
// is always exactly four uppercase hex digits.
func Checksum(payload string) string {
	sum := 0xFFFF
	for i := 0; i < len(payload); i++ {
		sum = (sum + int(payload[i])) & 0xFFFF
	}
	hex := strconv.FormatInt(int64(0x10000|sum), 16)
	return strings.ToUpper(hex[1:])
}

// QRImageURL returns the external QR rendering endpoint for a payload.
// Best-effort: an unreachable image service only costs the picture.
func QRImageURL(payload string) string {
	return "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data=" + url.QueryEscape(payload)
}
