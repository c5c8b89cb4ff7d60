package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"construtora/internal/documents"
	"construtora/internal/storage"
	"construtora/pkg/types"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
}

// writeFailure maps a service error to a status code. The message is passed
// through so storage and database causes reach the caller.
func (s *Service) writeFailure(w http.ResponseWriter, err error, msg string) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).Error(msg)
	}
	s.writeJSON(w, status, errorResponse{Error: msg + ": " + err.Error()})
}

var notFoundErrors = []error{
	types.ErrProjectNotFound,
	types.ErrEmployeeNotFound,
	types.ErrVehicleNotFound,
	types.ErrAccommodationNotFound,
	types.ErrDocumentNotFound,
	types.ErrUserNotFound,
	types.ErrRoleNotFound,
}

func errorStatus(err error) int {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}

	switch {
	case errors.Is(err, storage.ErrObjectExists):
		return http.StatusConflict
	case errors.Is(err, documents.ErrMissingParent),
		errors.Is(err, documents.ErrContractsUnsupported):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
