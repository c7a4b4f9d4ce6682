// Package testutil wires handler tests to an in-memory sqlite database and
// provides the fixtures and request helpers they share.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/sportsme/sportsme-backend/db"
	"github.com/sportsme/sportsme-backend/db/model"
	"github.com/sportsme/sportsme-backend/env"
	"github.com/sportsme/sportsme-backend/server"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestIP is the host part of httptest.NewRequest's default RemoteAddr, which
// access tokens must be audience-bound to.
const TestIP = "192.0.2.1"

// TestPassword is the password every fixture user is created with.
const TestPassword = "password123"

// SetupDB opens a fresh named in-memory sqlite database, migrates the schema
// and installs it as the package handle. Shared cache keeps the database
// alive across the pool's connections; the uuid name isolates tests from one
// another.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()
	env.HS256_SECRET = []byte("test-hs256-secret")
	env.ATTACHMENTS_BUCKET = "attachments"
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.Set(gdb); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return gdb
}

func DiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// NewRouter builds a mux with the full server middleware stack so requests
// carry the same context values they would in production.
func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	server.SetupMiddlewares(r, DiscardLogger())
	return r
}

func CreateUser(t *testing.T, gdb *gorm.DB, email, name string) *model.User {
	t.Helper()
	pass, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &model.User{Email: email, Displayname: name, Pass: string(pass)}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// Signin creates the session row and audience-bound access token cookie the
// authenticator expects for the user.
func Signin(t *testing.T, gdb *gorm.DB, u *model.User) *http.Cookie {
	t.Helper()
	s := &model.Session{UserID: u.ID, IP: TestIP}
	if err := gdb.Create(s).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
		"aud": TestIP,
		"sub": strconv.FormatUint(uint64(u.ID), 10),
	})
	signed, err := token.SignedString(env.HS256_SECRET)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return &http.Cookie{Name: "accessToken", Value: signed}
}

func CreateGroup(t *testing.T, gdb *gorm.DB, owner *model.User, name string) *model.Group {
	t.Helper()
	g := &model.Group{Name: name, Code: strings.ToLower(uuid.NewString()[:6]), OwnerID: owner.ID}
	if err := gdb.Create(g).Error; err != nil {
		t.Fatalf("create group: %v", err)
	}
	m := &model.Membership{UserID: owner.ID, GroupID: g.ID, Role: model.RoleOwner}
	if err := gdb.Create(m).Error; err != nil {
		t.Fatalf("create owner membership: %v", err)
	}
	return g
}

func JoinGroup(t *testing.T, gdb *gorm.DB, u *model.User, g *model.Group) {
	t.Helper()
	m := &model.Membership{UserID: u.ID, GroupID: g.ID, Role: model.RoleMember}
	if err := gdb.Create(m).Error; err != nil {
		t.Fatalf("create membership: %v", err)
	}
}

func CreatePost(t *testing.T, gdb *gorm.DB, g *model.Group, author *model.User, content string, poll bool) *model.Post {
	t.Helper()
	typ := model.TypeMessage
	if poll {
		typ = model.TypePoll
	}
	p := &model.Post{
		GroupID:    g.ID,
		AuthorID:   author.ID,
		AuthorName: author.DisplayName(),
		Content:    content,
		Type:       typ,
	}
	if err := gdb.Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

func CreateOption(t *testing.T, gdb *gorm.DB, postID uint, text string) *model.PollOption {
	t.Helper()
	o := &model.PollOption{PostID: postID, Text: text}
	if err := gdb.Create(o).Error; err != nil {
		t.Fatalf("create poll option: %v", err)
	}
	return o
}

func CreateVote(t *testing.T, gdb *gorm.DB, postID, optionID, userID uint) *model.PollVote {
	t.Helper()
	v := &model.PollVote{PostID: postID, OptionID: optionID, UserID: userID}
	if err := gdb.Create(v).Error; err != nil {
		t.Fatalf("create poll vote: %v", err)
	}
	return v
}

func CreateComment(t *testing.T, gdb *gorm.DB, postID uint, author *model.User, content string) *model.Comment {
	t.Helper()
	c := &model.Comment{PostID: postID, AuthorID: author.ID, AuthorName: author.DisplayName(), Content: content}
	if err := gdb.Create(c).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return c
}

// MakeRequest builds a JSON request, attaching the auth cookie when given.
func MakeRequest(method, path string, body any, cookie *http.Cookie) *http.Request {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// FakeStore is an in-memory storage.Store. Keys containing any FailFor
// substring fail their upload, for partial-failure scenarios.
type FakeStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	FailFor []string
}

func NewFakeStore() *FakeStore {
	return &FakeStore{Objects: make(map[string][]byte)}
}

func (s *FakeStore) Upload(ctx context.Context, bucket, key string, r io.Reader, contentType string) (string, error) {
	for _, f := range s.FailFor {
		if strings.Contains(key, f) {
			return "", errors.New("upload failed")
		}
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[bucket+"/"+key] = b
	return "https://storage.test/" + bucket + "/" + key, nil
}
