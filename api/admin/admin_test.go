package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/sportsme/sportsme-backend/db/model"
	"github.com/sportsme/sportsme-backend/env"
	"github.com/sportsme/sportsme-backend/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) (*gorm.DB, *Handlers, http.Handler) {
	t.Helper()
	gdb := testutil.SetupDB(t)
	env.ADMIN_TOKEN = "test-admin-token"
	h := NewHandlers(testutil.DiscardLogger())
	r := testutil.NewRouter()
	h.SetupRoutes(r)
	return gdb, h, r
}

func adminRequest(body any, token string) *http.Request {
	req := testutil.MakeRequest(http.MethodPost, "/api/admin/users", body, nil)
	if token != "" {
		req.Header.Set("x-admin-token", token)
	}
	return req
}

func TestAdminTokenGate(t *testing.T) {
	_, _, r := newTestRouter(t)

	// Wrong and missing tokens are 403 no matter what the body says.
	for name, req := range map[string]*http.Request{
		"missing header":       adminRequest(InDeleteUsers{UserID: "1"}, ""),
		"wrong token":          adminRequest(InDeleteUsers{UserID: "1"}, "nope"),
		"wrong token, bulk":    adminRequest(InDeleteUsers{DeleteAll: true}, "nope"),
		"wrong token, no body": adminRequest(nil, "nope"),
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code, name)
	}
}

func TestAdminNotConfigured(t *testing.T) {
	_, _, r := newTestRouter(t)
	env.ADMIN_TOKEN = ""

	w := httptest.NewRecorder()
	r.ServeHTTP(w, adminRequest(InDeleteUsers{UserID: "1"}, "anything"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var out map[string]string
	testutil.DecodeJSON(t, w, &out)
	assert.NotEmpty(t, out["error"])
}

func TestAdminBadInput(t *testing.T) {
	_, _, r := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/users", nil)
	req.Header.Set("x-admin-token", env.ADMIN_TOKEN)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty body is invalid JSON")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, adminRequest(InDeleteUsers{}, env.ADMIN_TOKEN))
	assert.Equal(t, http.StatusBadRequest, w.Code, "neither userId nor deleteAll")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, adminRequest(InDeleteUsers{UserID: "not-a-number"}, env.ADMIN_TOKEN))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func seedUserData(t *testing.T, gdb *gorm.DB, email, name string) *model.User {
	t.Helper()
	u := testutil.CreateUser(t, gdb, email, name)
	g := testutil.CreateGroup(t, gdb, u, name+"'s group")
	p := testutil.CreatePost(t, gdb, g, u, "poll by "+name, true)
	opt := testutil.CreateOption(t, gdb, p.ID, "A")
	testutil.CreateVote(t, gdb, p.ID, opt.ID, u.ID)
	testutil.CreateComment(t, gdb, p.ID, u, "comment by "+name)
	return u
}

func TestDeleteSingleUser(t *testing.T) {
	gdb, _, r := newTestRouter(t)
	victim := seedUserData(t, gdb, "alice@example.com", "Alice")
	survivor := seedUserData(t, gdb, "bob@example.com", "Bob")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, adminRequest(InDeleteUsers{
		UserID: strconv.FormatUint(uint64(victim.ID), 10),
	}, env.ADMIN_TOKEN))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out map[string]any
	testutil.DecodeJSON(t, w, &out)
	assert.Equal(t, true, out["success"])

	for _, q := range []struct {
		name   string
		model  any
		column string
	}{
		{"poll_votes", &model.PollVote{}, "user_id"},
		{"comments", &model.Comment{}, "author_id"},
		{"posts", &model.Post{}, "author_id"},
		{"group_memberships", &model.Membership{}, "user_id"},
		{"groups", &model.Group{}, "owner_id"},
	} {
		var n int64
		require.NoError(t, gdb.Model(q.model).Where(q.column+" = ?", victim.ID).Count(&n).Error)
		assert.Zero(t, n, "expected no %s rows for the deleted user", q.name)
	}
	var n int64
	require.NoError(t, gdb.Model(&model.User{}).Where("id = ?", victim.ID).Count(&n).Error)
	assert.Zero(t, n, "the account itself is removed last")

	// The other user's world is untouched.
	require.NoError(t, gdb.Model(&model.Post{}).Where("author_id = ?", survivor.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	require.NoError(t, gdb.Model(&model.Group{}).Where("owner_id = ?", survivor.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestDeleteAllIsolatesFailures(t *testing.T) {
	gdb, h, r := newTestRouter(t)
	u1 := testutil.CreateUser(t, gdb, "a@example.com", "A")
	u2 := testutil.CreateUser(t, gdb, "b@example.com", "B")
	u3 := testutil.CreateUser(t, gdb, "c@example.com", "C")

	h.deleteUser = func(ctx context.Context, userID uint) error {
		if userID == u2.ID {
			return errors.New("boom")
		}
		return deleteUserWithData(ctx, userID)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, adminRequest(InDeleteUsers{DeleteAll: true}, env.ADMIN_TOKEN))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Success bool         `json:"success"`
		Results []userResult `json:"results"`
	}
	testutil.DecodeJSON(t, w, &out)
	assert.True(t, out.Success)
	require.Len(t, out.Results, 3, "one failure must not abort the batch")

	byID := map[string]userResult{}
	for _, res := range out.Results {
		byID[res.UserID] = res
	}
	assert.True(t, byID[strconv.FormatUint(uint64(u1.ID), 10)].Ok)
	assert.True(t, byID[strconv.FormatUint(uint64(u3.ID), 10)].Ok)
	bad := byID[strconv.FormatUint(uint64(u2.ID), 10)]
	assert.False(t, bad.Ok)
	assert.Equal(t, "boom", bad.Error)

	var n int64
	require.NoError(t, gdb.Model(&model.User{}).Count(&n).Error)
	assert.EqualValues(t, 1, n, "only the failed user survives")
}
