package gist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambar/internal/core/apperror"
)

func TestCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/gists", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req struct {
			Public bool `json:"public"`
			Files  map[string]struct {
				Content string `json:"content"`
			} `json:"files"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Public)
		assert.Equal(t, `{"products":[]}`, req.Files["inventory-backup.json"].Content)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"id":       "g123",
			"html_url": "https://example.invalid/g123",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	created, err := c.Create(context.Background(), "tok", "inventory-backup.json", []byte(`{"products":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "g123", created.ID)
	assert.Equal(t, "https://example.invalid/g123", created.URL)
}

func TestCreateRequiresToken(t *testing.T) {
	c := NewClient("http://example.invalid")
	_, err := c.Create(context.Background(), "", "f.json", nil)
	assert.True(t, apperror.IsCode(err, apperror.CodeRemoteSync))
}

func TestUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/gists/g123", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"id": "g123"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Update(context.Background(), "tok", "g123", "f.json", []byte("{}"))
	assert.NoError(t, err)
}

func TestUpdateRequiresID(t *testing.T) {
	c := NewClient("http://example.invalid")
	err := c.Update(context.Background(), "tok", "", "f.json", nil)
	assert.True(t, apperror.IsCode(err, apperror.CodeRemoteSync))
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		// Public documents need no credential.
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"id": "g123",
			"files": map[string]any{
				"f.json": map[string]string{"content": `{"products":[]}`},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	content, err := c.Fetch(context.Background(), "g123", "f.json")
	require.NoError(t, err)
	assert.Equal(t, `{"products":[]}`, string(content))
}

func TestFetchMissingFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "g123", "files": map[string]any{}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Fetch(context.Background(), "g123", "f.json")
	assert.True(t, apperror.IsCode(err, apperror.CodeRemoteSync))
}

func TestErrorSurfacesRemoteMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Create(context.Background(), "tok", "f.json", nil)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeRemoteSync, appErr.Code)
	assert.Equal(t, "Bad credentials", appErr.Message)
	assert.Equal(t, http.StatusUnauthorized, appErr.Details["status"])
}

func TestErrorWithoutBodyMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Fetch(context.Background(), "g123", "f.json")
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Contains(t, appErr.Message, "502")
}
