package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sportsme/sportsme-backend/db/model"
	"github.com/sportsme/sportsme-backend/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) (*gorm.DB, http.Handler) {
	t.Helper()
	gdb := testutil.SetupDB(t)
	r := testutil.NewRouter()
	NewHandlers(testutil.DiscardLogger()).SetupRoutes(r)
	return gdb, r
}

func TestRegister(t *testing.T) {
	gdb, r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodPost, "/auth/register", InRegister{
		Email:    "alice@example.com",
		Name:     "  Alice  ",
		Password: "secret123",
	}, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var u model.User
	require.NoError(t, gdb.First(&u, "email = ?", "alice@example.com").Error)
	assert.Equal(t, "Alice", u.Displayname, "display name should be trimmed")
	assert.NotEqual(t, "secret123", u.Pass, "password must be stored hashed")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	gdb, r := newTestRouter(t)
	testutil.CreateUser(t, gdb, "alice@example.com", "Alice")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodPost, "/auth/register", InRegister{
		Email:    "alice@example.com",
		Name:     "Other Alice",
		Password: "secret123",
	}, nil))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterInvalidInput(t *testing.T) {
	_, r := newTestRouter(t)

	for name, body := range map[string]InRegister{
		"missing name":  {Email: "a@example.com", Password: "x"},
		"blank name":    {Email: "a@example.com", Name: "   ", Password: "x"},
		"missing email": {Name: "A", Password: "x"},
		"bad email":     {Email: "not-an-email", Name: "A", Password: "x"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, testutil.MakeRequest(http.MethodPost, "/auth/register", body, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestSignin(t *testing.T) {
	gdb, r := newTestRouter(t)
	u := testutil.CreateUser(t, gdb, "alice@example.com", "Alice")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodPost, "/auth/signin", InSignin{
		Email:    "alice@example.com",
		Password: testutil.TestPassword,
	}, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "accessToken" {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "signin must set the access token cookie")
	assert.NotEmpty(t, cookie.Value)

	var count int64
	require.NoError(t, gdb.Model(&model.Session{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "signin should create a session")

	// A second signin from the same address reuses the session row.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodPost, "/auth/signin", InSignin{
		Email:    "alice@example.com",
		Password: testutil.TestPassword,
	}, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, gdb.Model(&model.Session{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSigninFailures(t *testing.T) {
	gdb, r := newTestRouter(t)
	testutil.CreateUser(t, gdb, "alice@example.com", "Alice")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodPost, "/auth/signin", InSignin{
		Email:    "alice@example.com",
		Password: "wrong",
	}, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodPost, "/auth/signin", InSignin{
		Email:    "nobody@example.com",
		Password: testutil.TestPassword,
	}, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCurrentUser(t *testing.T) {
	gdb, r := newTestRouter(t)
	u := testutil.CreateUser(t, gdb, "alice@example.com", "Alice")
	cookie := testutil.Signin(t, gdb, u)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodGet, "/auth/user", nil, cookie))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out OutUser
	testutil.DecodeJSON(t, w, &out)
	assert.Equal(t, u.ID, out.ID)
	assert.Equal(t, "Alice", out.Displayname)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodGet, "/auth/user", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDisplayNameFallback(t *testing.T) {
	u := &model.User{Email: "bob@example.com"}
	assert.Equal(t, "bob@example.com", u.DisplayName())
	u.Displayname = "Bob"
	assert.Equal(t, "Bob", u.DisplayName())
	assert.Equal(t, "Unknown", (&model.User{}).DisplayName())
}

func TestSignout(t *testing.T) {
	gdb, r := newTestRouter(t)
	u := testutil.CreateUser(t, gdb, "alice@example.com", "Alice")
	cookie := testutil.Signin(t, gdb, u)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodPost, "/auth/signout", nil, cookie))
	require.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	require.NoError(t, gdb.Model(&model.Session{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count, "signout should remove the session")
}
