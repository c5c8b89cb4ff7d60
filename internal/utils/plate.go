package utils

import (
	"regexp"
	"strings"
)

var mercosulPlate = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)

func normalizePlate(plate string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(plate) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePlate accepts Mercosul plates (LLLDLDD), ignoring case and
// separators.
func ValidatePlate(plate string) bool {
	p := normalizePlate(plate)
	if len(p) != 7 {
		return false
	}
	return mercosulPlate.MatchString(p)
}

// FormatPlate returns the normalized plate, or the input unchanged when it is
// not a valid plate.
func FormatPlate(plate string) string {
	if !ValidatePlate(plate) {
		return plate
	}
	return normalizePlate(plate)
}
