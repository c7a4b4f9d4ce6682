package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sportsme/sportsme-backend/db/model"
	"github.com/sportsme/sportsme-backend/middleware"
	"github.com/sportsme/sportsme-backend/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator(t *testing.T) {
	gdb := testutil.SetupDB(t)
	u := testutil.CreateUser(t, gdb, "alice@example.com", "Alice")
	cookie := testutil.Signin(t, gdb, u)

	var got *model.User
	r := testutil.NewRouter()
	r.Use(middleware.Authenticator(testutil.DiscardLogger()))
	r.Get("/whoami", func(w http.ResponseWriter, req *http.Request) {
		got = req.Context().Value("user").(*model.User)
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodGet, "/whoami", nil, cookie))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
}

func TestAuthenticatorRejections(t *testing.T) {
	gdb := testutil.SetupDB(t)
	u := testutil.CreateUser(t, gdb, "alice@example.com", "Alice")

	r := testutil.NewRouter()
	r.Use(middleware.Authenticator(testutil.DiscardLogger()))
	r.Get("/whoami", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// No cookie.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodGet, "/whoami", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodGet, "/whoami", nil,
		&http.Cookie{Name: "accessToken", Value: "not.a.jwt"}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token but no session row behind it.
	cookie := testutil.Signin(t, gdb, u)
	require.NoError(t, gdb.Where("user_id = ?", u.ID).Delete(&model.Session{}).Error)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodGet, "/whoami", nil, cookie))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
