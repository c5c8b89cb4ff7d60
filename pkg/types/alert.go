package types

type Severity string

const (
	SeverityExpired Severity = "expired"
	SeverityWarning Severity = "warning"
	SeverityOK      Severity = "ok"
	SeverityNeutral Severity = "neutral"
)

// AlertStatus is computed on read from an expiry date and never stored.
type AlertStatus struct {
	Severity   Severity `json:"severity"`
	Label      string   `json:"label"`
	BadgeClass string   `json:"badgeClass"`
	DaysLeft   *int     `json:"daysLeft,omitempty"`
}

func (s AlertStatus) IsAlerting() bool {
	return s.Severity == SeverityExpired || s.Severity == SeverityWarning
}
