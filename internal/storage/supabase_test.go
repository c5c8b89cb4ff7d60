package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSupabase(t *testing.T, handler http.HandlerFunc) *SupabaseStorage {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &SupabaseStorage{
		baseURL:    srv.URL + "/storage/v1",
		apiKey:     "service-key",
		httpClient: srv.Client(),
	}
}

func TestSupabaseUpload(t *testing.T) {
	var gotPath, gotBody, gotUpsert, gotAuth, gotType string
	s := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotPath = r.URL.Path
		gotUpsert = r.Header.Get("x-upsert")
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	})

	err := s.Upload(context.Background(), "obras-documentos", "p1/pgr/abc.pdf", strings.NewReader("%PDF"), 4, "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/obras-documentos/p1/pgr/abc.pdf", gotPath)
	assert.Equal(t, "false", gotUpsert)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, "%PDF", gotBody)
}

func TestSupabaseUploadDuplicate(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"conflict status", http.StatusConflict, `{"error":"Duplicate"}`},
		{"legacy bad request", http.StatusBadRequest, `{"statusCode":"409","error":"Duplicate","message":"The resource already exists"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := s.Upload(context.Background(), "b", "x/y.pdf", strings.NewReader("x"), 1, "application/pdf")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrObjectExists))
		})
	}
}

func TestSupabaseUploadFailure(t *testing.T) {
	s := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})

	err := s.Upload(context.Background(), "b", "x/y.pdf", strings.NewReader("x"), 1, "application/pdf")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrObjectExists))
	assert.Contains(t, err.Error(), "boom")
}

func TestSupabaseRemove(t *testing.T) {
	var method, path string
	s := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, s.Remove(context.Background(), "b", "p1/aso/f.png"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/storage/v1/object/b/p1/aso/f.png", path)
}

func TestSupabasePublicURLRoundTrip(t *testing.T) {
	s := NewSupabaseStorage("abcd", "key")
	u := s.PublicURL("obras-documentos", "p1/pgr/file name.pdf")
	assert.Equal(t, "https://abcd.supabase.co/storage/v1/object/public/obras-documentos/p1/pgr/file%20name.pdf", u)

	path, err := ObjectPath(u, "obras-documentos")
	require.NoError(t, err)
	assert.Equal(t, "p1/pgr/file name.pdf", path)
}
