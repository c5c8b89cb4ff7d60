package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"construtora/internal/utils"

	"github.com/go-playground/form/v4"
)

var errValidation = errors.New("validation failed")

var decoder = newDecoder()

func newDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.RegisterCustomTypeFunc(func(vals []string) (any, error) {
		if strings.TrimSpace(vals[0]) == "" {
			return time.Time{}, nil
		}
		return parseDate(vals[0])
	}, time.Time{})
	return d
}

// decodeBody fills dst from a JSON body or from form values, depending on the
// request content type.
func (s *Service) decodeBody(r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return fmt.Errorf("invalid json payload: %w", err)
		}
		return nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
			return fmt.Errorf("invalid multipart payload: %w", err)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("invalid form payload: %w", err)
		}
	}

	if err := decoder.Decode(dst, r.Form); err != nil {
		return fmt.Errorf("invalid form payload: %w", err)
	}

	return nil
}

// decodeValid decodes and validates dst. On failure the response has been
// written and false is returned; validation failures answer 422 with the
// offending fields so the client can keep the form open.
func (s *Service) decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := s.decodeBody(r, dst); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return false
	}

	if err := s.validate.Struct(dst); err != nil {
		fields := utils.FieldErrors(err)
		if fields == nil {
			s.logger.WithError(err).Error("failed to run validation")
			s.internalServerError(w)
			return false
		}
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: errValidation.Error(), Fields: fields})
		return false
	}

	return true
}

func (s *Service) maxUploadBytes() int64 {
	mb := s.config.MaxUploadMB
	if mb <= 0 {
		mb = 32
	}
	return mb << 20
}

// parseDate accepts a calendar date or a full timestamp.
func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", v)
	}
	return t, nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// optionalDate drops zero dates left by empty form fields.
func optionalDate(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	return t
}
