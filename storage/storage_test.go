package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sportsme/sportsme-backend/env"
	"github.com/sportsme/sportsme-backend/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	var (
		gotMethod      string
		gotPath        string
		gotContentType string
		gotBody        []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	env.STORAGE_ADDR = srv.URL
	env.STORAGE_PUBLIC_URL = "https://files.example.com"
	s := storage.New()

	url, err := s.Upload(context.Background(), "attachments", "1/2/photo.jpg",
		strings.NewReader("jpeg bytes"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/attachments/1/2/photo.jpg", gotPath)
	assert.Equal(t, "image/jpeg", gotContentType)
	assert.Equal(t, "jpeg bytes", string(gotBody))
	assert.Equal(t, "https://files.example.com/attachments/1/2/photo.jpg", url)
}

func TestUploadPublicURLFallsBackToAddr(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	env.STORAGE_ADDR = srv.URL
	env.STORAGE_PUBLIC_URL = ""
	s := storage.New()

	url, err := s.Upload(context.Background(), "attachments", "k", strings.NewReader("x"), "")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/attachments/k", url)
}

func TestUploadErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	env.STORAGE_ADDR = srv.URL
	env.STORAGE_PUBLIC_URL = ""
	s := storage.New()

	_, err := s.Upload(context.Background(), "attachments", "k", strings.NewReader("x"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
