package server

import (
	"context"
	"net/http"
	"strings"

	"construtora/pkg/types"

	"github.com/alexedwards/flow"
)

func employeeFromInput(in *types.EmployeeInput) *types.Employee {
	return &types.Employee{
		Name:            strings.TrimSpace(in.Name),
		JobTitle:        optionalString(in.JobTitle),
		Phone:           optionalString(in.Phone),
		ProjectID:       optionalString(in.ProjectID),
		AccommodationID: optionalString(in.AccommodationID),
		HiredAt:         optionalDate(in.HiredAt),
		Active:          true,
	}
}

func (s *Service) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := s.employees.Employees(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		s.writeFailure(w, err, "failed to list employees")
		return
	}

	s.writeJSON(w, http.StatusOK, employees)
}

func (s *Service) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	employee, err := s.employees.Employee(r.Context(), flow.Param(r.Context(), "id"))
	if err != nil {
		s.writeFailure(w, err, "failed to load employee")
		return
	}

	s.writeJSON(w, http.StatusOK, employee)
}

func (s *Service) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var in = new(types.EmployeeInput)
	if !s.decodeValid(w, r, in) {
		return
	}

	employee := employeeFromInput(in)
	if err := s.employees.CreateEmployee(r.Context(), employee); err != nil {
		s.writeFailure(w, err, "failed to create employee")
		return
	}

	s.writeJSON(w, http.StatusCreated, employee)
}

func (s *Service) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employeeID := flow.Param(ctx, "id")

	current, err := s.employees.Employee(ctx, employeeID)
	if err != nil {
		s.writeFailure(w, err, "failed to load employee")
		return
	}

	var in = new(types.EmployeeInput)
	if !s.decodeValid(w, r, in) {
		return
	}

	employee := employeeFromInput(in)
	employee.Active = current.Active
	employee.ID = current.ID
	employee.CreatedAt = current.CreatedAt

	if err := s.employees.UpdateEmployee(ctx, employeeID, employee); err != nil {
		s.writeFailure(w, err, "failed to update employee")
		return
	}

	s.writeJSON(w, http.StatusOK, employee)
}

func (s *Service) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employeeID := flow.Param(ctx, "id")

	err := s.deleteWithDocuments(ctx, types.EmployeeDocuments, employeeID, func(ctx context.Context) error {
		return s.employees.DeleteEmployee(ctx, employeeID)
	})
	if err != nil {
		s.writeFailure(w, err, "failed to delete employee")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
