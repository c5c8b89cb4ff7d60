package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"construtora/pkg/types"
)

func TestAlertStatusFor(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.Local)
	day := func(offset int) *time.Time {
		d := time.Date(2026, 3, 10+offset, 0, 0, 0, 0, time.UTC)
		return &d
	}

	tests := []struct {
		name     string
		date     *time.Time
		severity types.Severity
		label    string
	}{
		{"nil", nil, types.SeverityNeutral, "N/A"},
		{"zero", &time.Time{}, types.SeverityNeutral, "N/A"},
		{"yesterday", day(-1), types.SeverityExpired, "VENCIDO"},
		{"today", day(0), types.SeverityWarning, "ATENÇÃO"},
		{"thirty days", day(30), types.SeverityWarning, "ATENÇÃO"},
		{"thirty one days", day(31), types.SeverityOK, "VÁLIDO"},
		{"last year", day(-365), types.SeverityExpired, "VENCIDO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := AlertStatusFor(tt.date, now)
			assert.Equal(t, tt.severity, status.Severity)
			assert.Equal(t, tt.label, status.Label)
			assert.NotEmpty(t, status.BadgeClass)
		})
	}
}

func TestAlertStatusIgnoresTimeOfDay(t *testing.T) {
	early := time.Date(2026, 3, 10, 0, 1, 0, 0, time.Local)
	late := time.Date(2026, 3, 10, 23, 59, 0, 0, time.Local)

	for offset := -40; offset <= 40; offset++ {
		morning := time.Date(2026, 3, 10+offset, 6, 0, 0, 0, time.Local)
		night := time.Date(2026, 3, 10+offset, 22, 0, 0, 0, time.Local)

		a := AlertStatusFor(&morning, early)
		b := AlertStatusFor(&night, late)
		assert.Equal(t, a.Severity, b.Severity, "offset %d", offset)
		require.NotNil(t, a.DaysLeft)
		assert.Equal(t, offset, *a.DaysLeft)
	}
}

func TestAlertStatusNow(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	assert.Equal(t, types.SeverityExpired, AlertStatus(&yesterday).Severity)
	assert.Equal(t, types.SeverityNeutral, AlertStatus(nil).Severity)
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skip("tzdata not available")
	}

	from := time.Date(2018, 11, 3, 23, 0, 0, 0, loc)
	to := time.Date(2018, 11, 5, 0, 30, 0, 0, loc)
	assert.Equal(t, 2, DaysBetween(from, to))
}
