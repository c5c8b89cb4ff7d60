package utils

import (
	"time"

	"construtora/pkg/types"
)

// AlertWarningDays is the inclusive window, in days, in which an upcoming
// expiry is flagged as a warning.
const AlertWarningDays = 30

// AlertStatus classifies date against the current local day.
func AlertStatus(date *time.Time) types.AlertStatus {
	return AlertStatusFor(date, time.Now())
}

// AlertStatusFor classifies date against the calendar day of now. Only whole
// days matter; the time of day on either side is ignored.
func AlertStatusFor(date *time.Time, now time.Time) types.AlertStatus {
	if date == nil || date.IsZero() {
		return types.AlertStatus{
			Severity:   types.SeverityNeutral,
			Label:      "N/A",
			BadgeClass: "badge-neutral",
		}
	}

	days := DaysBetween(now, *date)

	status := types.AlertStatus{DaysLeft: &days}
	switch {
	case days < 0:
		status.Severity = types.SeverityExpired
		status.Label = "VENCIDO"
		status.BadgeClass = "badge-danger"
	case days <= AlertWarningDays:
		status.Severity = types.SeverityWarning
		status.Label = "ATENÇÃO"
		status.BadgeClass = "badge-warning"
	default:
		status.Severity = types.SeverityOK
		status.Label = "VÁLIDO"
		status.BadgeClass = "badge-success"
	}

	return status
}

// DaysBetween counts calendar days from `from` to `to`. Each side keeps its
// own calendar date: expiry dates come back from Postgres as UTC midnight and
// must not slide a day when compared against local time.
func DaysBetween(from, to time.Time) int {
	// noon UTC keeps DST shifts out of the division
	a := time.Date(from.Year(), from.Month(), from.Day(), 12, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 12, 0, 0, 0, time.UTC)

	return int(b.Sub(a).Hours() / 24)
}
