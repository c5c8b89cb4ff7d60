package server

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"construtora/internal/documents"
	"construtora/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/sirupsen/logrus"
)

// documentSlotForm is one documents[i] group of a multipart submission.
// Description and ExpiresAt are pointers so an absent field (leave alone)
// differs from an empty one (clear).
type documentSlotForm struct {
	Type        string  `form:"type"`
	ExistingID  string  `form:"existing_id"`
	Description *string `form:"description"`
	ExpiresAt   *string `form:"expires_at"`
}

type documentsForm struct {
	Documents []documentSlotForm `form:"documents"`
}

type contractForm struct {
	ValueCents  int64  `form:"value_cents" json:"valueCents" validate:"gte=0"`
	Description string `form:"description" json:"description" validate:"max=500"`
	ExpiresAt   string `form:"expires_at" json:"expiresAt"`
}

type savedDocuments struct {
	IDs   []string            `json:"ids"`
	Slots types.DocumentSlots `json:"slots"`
}

// parentExists answers with the kind's not found error when parentID is not a
// record of the kind.
func (s *Service) parentExists(ctx context.Context, kind types.DocumentKind, parentID string) error {
	var err error
	switch kind.Name {
	case types.ProjectDocuments.Name:
		_, err = s.projects.Project(ctx, parentID)
	case types.EmployeeDocuments.Name:
		_, err = s.employees.Employee(ctx, parentID)
	case types.VehicleDocuments.Name:
		_, err = s.vehicles.Vehicle(ctx, parentID)
	case types.AccommodationDocuments.Name:
		_, err = s.accommodations.Accommodation(ctx, parentID)
	default:
		err = fmt.Errorf("unknown document kind %q", kind.Name)
	}
	return err
}

func (s *Service) handleGetDocuments(docs *documents.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		parentID := flow.Param(ctx, "parentID")

		if err := s.parentExists(ctx, docs.Kind(), parentID); err != nil {
			s.writeFailure(w, err, "failed to load "+docs.Kind().Name)
			return
		}

		slots, err := docs.Slots(ctx, parentID)
		if err != nil {
			s.writeFailure(w, err, "failed to list documents")
			return
		}

		s.writeJSON(w, http.StatusOK, slots)
	}
}

func (s *Service) handlePostDocuments(docs *documents.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		parentID := flow.Param(ctx, "parentID")

		if err := s.parentExists(ctx, docs.Kind(), parentID); err != nil {
			s.writeFailure(w, err, "failed to load "+docs.Kind().Name)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())
		if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid multipart payload: %w", err))
			return
		}
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()

		var payload = new(documentsForm)
		if err := decoder.Decode(payload, r.MultipartForm.Value); err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid form payload: %w", err))
			return
		}

		inputs, closeFiles, err := upsertInputs(parentID, payload, r.MultipartForm.File)
		defer closeFiles()
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}

		ids, err := docs.SaveAll(ctx, inputs)
		if err != nil {
			s.writeFailure(w, err, "failed to save documents")
			return
		}

		s.logger.WithFields(logrus.Fields{
			"kind":      docs.Kind().Name,
			"parent_id": parentID,
			"slots":     len(inputs),
		}).Info("documents saved")

		slots, err := docs.Slots(ctx, parentID)
		if err != nil {
			s.writeFailure(w, err, "failed to list documents")
			return
		}

		s.writeJSON(w, http.StatusOK, savedDocuments{IDs: ids, Slots: slots})
	}
}

// upsertInputs turns the decoded form into lifecycle inputs. The returned func
// closes every opened upload and is safe to call on error.
func upsertInputs(parentID string, payload *documentsForm, files map[string][]*multipart.FileHeader) ([]documents.UpsertInput, func(), error) {
	var opened []multipart.File
	closeFiles := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	inputs := make([]documents.UpsertInput, 0, len(payload.Documents))
	for i, slot := range payload.Documents {
		in := documents.UpsertInput{
			ParentID:   parentID,
			Type:       slot.Type,
			ExistingID: strings.TrimSpace(slot.ExistingID),
		}

		if slot.Description != nil {
			if d := strings.TrimSpace(*slot.Description); d != "" {
				in.Description = types.Some(d)
			} else {
				in.Description = types.Null[string]()
			}
		}

		if slot.ExpiresAt != nil {
			if strings.TrimSpace(*slot.ExpiresAt) == "" {
				in.ExpiresAt = types.Null[time.Time]()
			} else {
				t, err := parseDate(*slot.ExpiresAt)
				if err != nil {
					return nil, closeFiles, fmt.Errorf("documents[%d].expires_at: %w", i, err)
				}
				in.ExpiresAt = types.Some(t)
			}
		}

		if headers := files[fmt.Sprintf("documents[%d].file", i)]; len(headers) > 0 {
			fh := headers[0]
			f, err := fh.Open()
			if err != nil {
				return nil, closeFiles, fmt.Errorf("documents[%d].file: %w", i, err)
			}
			opened = append(opened, f)
			in.File = &documents.File{
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Body:        f,
			}
		}

		inputs = append(inputs, in)
	}

	return inputs, closeFiles, nil
}

func (s *Service) handleDeleteDocument(docs *documents.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		parentID := flow.Param(ctx, "parentID")
		docID := flow.Param(ctx, "docID")

		if err := docs.DeleteOwned(ctx, parentID, docID); err != nil {
			s.writeFailure(w, err, "failed to delete document")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Service) handleGetHistory(docs *documents.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		parentID := flow.Param(ctx, "parentID")

		if err := s.parentExists(ctx, docs.Kind(), parentID); err != nil {
			s.writeFailure(w, err, "failed to load "+docs.Kind().Name)
			return
		}

		entries, err := docs.History(ctx, parentID)
		if err != nil {
			s.writeFailure(w, err, "failed to list history")
			return
		}

		s.writeJSON(w, http.StatusOK, entries)
	}
}

func (s *Service) handlePostContract(docs *documents.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		parentID := flow.Param(ctx, "parentID")

		if err := s.parentExists(ctx, docs.Kind(), parentID); err != nil {
			s.writeFailure(w, err, "failed to load "+docs.Kind().Name)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())

		var payload = new(contractForm)
		if !s.decodeValid(w, r, payload) {
			return
		}

		in := documents.ContractInput{
			ParentID:    parentID,
			ValueCents:  payload.ValueCents,
			Description: optionalString(payload.Description),
		}

		if strings.TrimSpace(payload.ExpiresAt) != "" {
			t, err := parseDate(payload.ExpiresAt)
			if err != nil {
				s.writeError(w, http.StatusBadRequest, err)
				return
			}
			in.ExpiresAt = &t
		}

		if r.MultipartForm != nil {
			defer func() {
				_ = r.MultipartForm.RemoveAll()
			}()
			if headers := r.MultipartForm.File["file"]; len(headers) > 0 {
				fh := headers[0]
				f, err := fh.Open()
				if err != nil {
					s.writeError(w, http.StatusBadRequest, fmt.Errorf("file: %w", err))
					return
				}
				defer f.Close()
				in.File = &documents.File{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Size: fh.Size, Body: f}
			}
		}

		id, err := docs.AddContract(ctx, in)
		if err != nil {
			s.writeFailure(w, err, "failed to save contract")
			return
		}

		s.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	}
}
