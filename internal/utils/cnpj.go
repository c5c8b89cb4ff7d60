package utils

import "strings"

const cnpjLength = 14

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCNPJ reports whether id holds a CNPJ with valid check digits.
// Punctuation is ignored.
func ValidateCNPJ(id string) bool {
	digits := onlyDigits(id)
	if len(digits) != cnpjLength {
		return false
	}

	if strings.Count(digits, digits[:1]) == cnpjLength {
		return false
	}

	return cnpjCheckDigit(digits[:12]) == digits[12] && cnpjCheckDigit(digits[:13]) == digits[13]
}

// cnpjCheckDigit computes the modulo 11 digit over base. Weights run from
// right to left as 2..9 and wrap back to 2.
func cnpjCheckDigit(base string) byte {
	sum := 0
	weight := len(base) - 7
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * weight
		weight--
		if weight < 2 {
			weight = 9
		}
	}

	rem := sum % 11
	if rem < 2 {
		return '0'
	}
	return byte('0' + 11 - rem)
}

// FormatCNPJ masks raw as NN.NNN.NNN/NNNN-NN. Short input is masked as far as
// it goes and anything past 14 digits is dropped.
func FormatCNPJ(raw string) string {
	digits := onlyDigits(raw)
	if len(digits) > cnpjLength {
		digits = digits[:cnpjLength]
	}

	var b strings.Builder
	for i := 0; i < len(digits); i++ {
		switch i {
		case 2, 5:
			b.WriteByte('.')
		case 8:
			b.WriteByte('/')
		case 12:
			b.WriteByte('-')
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}
