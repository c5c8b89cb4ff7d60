package server

import (
	"context"
	"net/http"
	"strings"

	"construtora/internal/utils"
	"construtora/pkg/types"

	"github.com/alexedwards/flow"
)

func accommodationFromInput(in *types.AccommodationInput) *types.Accommodation {
	accommodation := &types.Accommodation{
		Name:             strings.TrimSpace(in.Name),
		Address:          optionalString(in.Address),
		City:             optionalString(in.City),
		LandlordName:     optionalString(in.LandlordName),
		MonthlyRentCents: in.MonthlyRentCents,
		Capacity:         in.Capacity,
		ProjectID:        optionalString(in.ProjectID),
		LeaseEndsAt:      optionalDate(in.LeaseEndsAt),
	}
	if cnpj := optionalString(in.LandlordCNPJ); cnpj != nil {
		accommodation.LandlordCNPJ = utils.StringPtr(utils.FormatCNPJ(*cnpj))
	}
	return accommodation
}

func (s *Service) handleListAccommodations(w http.ResponseWriter, r *http.Request) {
	accommodations, err := s.accommodations.Accommodations(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		s.writeFailure(w, err, "failed to list accommodations")
		return
	}

	s.writeJSON(w, http.StatusOK, accommodations)
}

func (s *Service) handleGetAccommodation(w http.ResponseWriter, r *http.Request) {
	accommodation, err := s.accommodations.Accommodation(r.Context(), flow.Param(r.Context(), "id"))
	if err != nil {
		s.writeFailure(w, err, "failed to load accommodation")
		return
	}

	s.writeJSON(w, http.StatusOK, accommodation)
}

func (s *Service) handleCreateAccommodation(w http.ResponseWriter, r *http.Request) {
	var in = new(types.AccommodationInput)
	if !s.decodeValid(w, r, in) {
		return
	}

	accommodation := accommodationFromInput(in)
	if err := s.accommodations.CreateAccommodation(r.Context(), accommodation); err != nil {
		s.writeFailure(w, err, "failed to create accommodation")
		return
	}

	s.writeJSON(w, http.StatusCreated, accommodation)
}

func (s *Service) handleUpdateAccommodation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accommodationID := flow.Param(ctx, "id")

	current, err := s.accommodations.Accommodation(ctx, accommodationID)
	if err != nil {
		s.writeFailure(w, err, "failed to load accommodation")
		return
	}

	var in = new(types.AccommodationInput)
	if !s.decodeValid(w, r, in) {
		return
	}

	accommodation := accommodationFromInput(in)
	accommodation.ID = current.ID
	accommodation.CreatedAt = current.CreatedAt

	if err := s.accommodations.UpdateAccommodation(ctx, accommodationID, accommodation); err != nil {
		s.writeFailure(w, err, "failed to update accommodation")
		return
	}

	s.writeJSON(w, http.StatusOK, accommodation)
}

func (s *Service) handleDeleteAccommodation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accommodationID := flow.Param(ctx, "id")

	err := s.deleteWithDocuments(ctx, types.AccommodationDocuments, accommodationID, func(ctx context.Context) error {
		return s.accommodations.DeleteAccommodation(ctx, accommodationID)
	})
	if err != nil {
		s.writeFailure(w, err, "failed to delete accommodation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
