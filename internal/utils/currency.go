package utils

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders cents as Brazilian reais, e.g. "R$ 1.234,56". The
// magnitude goes through uint64 so math.MinInt64 keeps its value.
func FormatBRL(cents int64) string {
	sign := ""
	abs := uint64(cents)
	if cents < 0 {
		sign = "-"
		abs = -abs
	}

	return fmt.Sprintf("%sR$ %s,%02d", sign, brl.Sprintf("%d", abs/100), abs%100)
}
