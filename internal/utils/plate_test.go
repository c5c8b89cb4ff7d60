package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePlate(t *testing.T) {
	cases := map[string]bool{
		"BRA1B23":  true,
		"bra1b23":  true,
		"BRA-1B23": true,
		"ABC1234":  false,
		"BRA1B2":   false,
		"BRA1B234": false,
		"1RA1B23":  false,
		"":         false,
	}

	for input, want := range cases {
		assert.Equal(t, want, ValidatePlate(input), "input %q", input)
	}
}

func TestFormatPlate(t *testing.T) {
	assert.Equal(t, "BRA1B23", FormatPlate("bra-1b23"))
	assert.Equal(t, "ABC1234", FormatPlate("ABC1234"))
}
