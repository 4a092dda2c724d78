package utils

import (
	"regexp"
	"strings"
)

const PhoneDigits = 10

var (
	nonDigitRegexp   = regexp.MustCompile(`\D`)
	nonCityRegexp    = regexp.MustCompile(`[^\p{L} .\-]`)
	nonInvoiceRegexp = regexp.MustCompile(`[^A-Za-z0-9\-/]`)
	spacesRegexp     = regexp.MustCompile(`\s{2,}`)
)

// MaskPhone оставляет только цифры, не больше PhoneDigits.
func MaskPhone(phone string) string {
	digitsOnly := nonDigitRegexp.ReplaceAllString(phone, "")
	if len(digitsOnly) > PhoneDigits {
		return digitsOnly[:PhoneDigits]
	}
	return digitsOnly
}

// MaskCityName убирает всё, кроме букв, пробелов, точек и дефисов.
func MaskCityName(city string) string {
	s := nonCityRegexp.ReplaceAllString(city, "")
	return spacesRegexp.ReplaceAllString(s, " ")
}

// MaskInvoiceNumber: латиница, цифры, "-" и "/", в верхнем регистре.
func MaskInvoiceNumber(invoice string) string {
	return strings.ToUpper(nonInvoiceRegexp.ReplaceAllString(invoice, ""))
}
