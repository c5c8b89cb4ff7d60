package server

import (
	"fmt"
	"net/http"
	"strconv"

	"construtora/internal/utils"
	"construtora/pkg/types"
)

const maxAlertDays = 365

type alertsResponse struct {
	Days      int                      `json:"days"`
	Documents []types.ExpiringDocument `json:"documents"`
}

func (s *Service) handleGetAlerts(w http.ResponseWriter, r *http.Request) {
	days := utils.AlertWarningDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > maxAlertDays {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("days must be a number between 0 and %d", maxAlertDays))
			return
		}
		days = n
	}

	docs, err := s.documents.Expiring(r.Context(), days)
	if err != nil {
		s.writeFailure(w, err, "failed to list expiring documents")
		return
	}

	s.writeJSON(w, http.StatusOK, alertsResponse{Days: days, Documents: docs})
}
