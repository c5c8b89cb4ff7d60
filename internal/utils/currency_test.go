package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 0,00", FormatBRL(0))
	assert.Equal(t, "R$ 0,05", FormatBRL(5))
	assert.Equal(t, "R$ 12,30", FormatBRL(1230))
	assert.Equal(t, "R$ 1.234,56", FormatBRL(123456))
	assert.Equal(t, "R$ 1.000.000,00", FormatBRL(100000000))
	assert.Equal(t, "-R$ 10,50", FormatBRL(-1050))
}

func TestFormatBRLExtremes(t *testing.T) {
	assert.Equal(t, "R$ 92.233.720.368.547.758,07", FormatBRL(math.MaxInt64))
	assert.Equal(t, "-R$ 92.233.720.368.547.758,08", FormatBRL(math.MinInt64))
}
