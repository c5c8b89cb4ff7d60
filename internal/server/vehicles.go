package server

import (
	"context"
	"net/http"

	"construtora/internal/utils"
	"construtora/pkg/types"

	"github.com/alexedwards/flow"
)

func vehicleFromInput(in *types.VehicleInput) *types.Vehicle {
	vehicle := &types.Vehicle{
		Plate:     utils.FormatPlate(in.Plate),
		Brand:     optionalString(in.Brand),
		Model:     optionalString(in.Model),
		ProjectID: optionalString(in.ProjectID),
	}
	if in.Year != 0 {
		year := in.Year
		vehicle.Year = &year
	}
	return vehicle
}

func (s *Service) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.vehicles.Vehicles(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		s.writeFailure(w, err, "failed to list vehicles")
		return
	}

	s.writeJSON(w, http.StatusOK, vehicles)
}

func (s *Service) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle, err := s.vehicles.Vehicle(r.Context(), flow.Param(r.Context(), "id"))
	if err != nil {
		s.writeFailure(w, err, "failed to load vehicle")
		return
	}

	s.writeJSON(w, http.StatusOK, vehicle)
}

func (s *Service) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var in = new(types.VehicleInput)
	if !s.decodeValid(w, r, in) {
		return
	}

	vehicle := vehicleFromInput(in)
	if err := s.vehicles.CreateVehicle(r.Context(), vehicle); err != nil {
		s.writeFailure(w, err, "failed to create vehicle")
		return
	}

	s.writeJSON(w, http.StatusCreated, vehicle)
}

func (s *Service) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vehicleID := flow.Param(ctx, "id")

	current, err := s.vehicles.Vehicle(ctx, vehicleID)
	if err != nil {
		s.writeFailure(w, err, "failed to load vehicle")
		return
	}

	var in = new(types.VehicleInput)
	if !s.decodeValid(w, r, in) {
		return
	}

	vehicle := vehicleFromInput(in)
	vehicle.ID = current.ID
	vehicle.CreatedAt = current.CreatedAt

	if err := s.vehicles.UpdateVehicle(ctx, vehicleID, vehicle); err != nil {
		s.writeFailure(w, err, "failed to update vehicle")
		return
	}

	s.writeJSON(w, http.StatusOK, vehicle)
}

func (s *Service) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vehicleID := flow.Param(ctx, "id")

	err := s.deleteWithDocuments(ctx, types.VehicleDocuments, vehicleID, func(ctx context.Context) error {
		return s.vehicles.DeleteVehicle(ctx, vehicleID)
	})
	if err != nil {
		s.writeFailure(w, err, "failed to delete vehicle")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
