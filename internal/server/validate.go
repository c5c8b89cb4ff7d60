package server

import (
	"net/http"

	"construtora/internal/utils"
)

type valueForm struct {
	Value string `form:"value" json:"value"`
}

type validationResult struct {
	Valid     bool   `json:"valid"`
	Formatted string `json:"formatted"`
}

// handleValidateCNPJ backs the as-you-type mask and check on CNPJ inputs.
func (s *Service) handleValidateCNPJ(w http.ResponseWriter, r *http.Request) {
	var in = new(valueForm)
	if err := s.decodeBody(r, in); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.writeJSON(w, http.StatusOK, validationResult{
		Valid:     utils.ValidateCNPJ(in.Value),
		Formatted: utils.FormatCNPJ(in.Value),
	})
}

func (s *Service) handleValidatePlate(w http.ResponseWriter, r *http.Request) {
	var in = new(valueForm)
	if err := s.decodeBody(r, in); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.writeJSON(w, http.StatusOK, validationResult{
		Valid:     utils.ValidatePlate(in.Value),
		Formatted: utils.FormatPlate(in.Value),
	})
}
