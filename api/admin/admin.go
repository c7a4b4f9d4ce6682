package admin

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sportsme/sportsme-backend/db"
	"github.com/sportsme/sportsme-backend/db/model"
	"github.com/sportsme/sportsme-backend/env"
)

// listUsersLimit caps how many accounts a single delete-all pass covers.
const listUsersLimit = 1000

type Handlers struct {
	logger *log.Logger

	// deleteUser is swappable so batch failure isolation is testable
	// without needing a database that fails on cue.
	deleteUser func(ctx context.Context, userID uint) error
}

type InDeleteUsers struct {
	UserID    string `json:"userId"`
	DeleteAll bool   `json:"deleteAll"`
}

type userResult struct {
	UserID string `json:"userId"`
	Ok     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

func (h *Handlers) deleteUsers(w http.ResponseWriter, r *http.Request) {
	if env.ADMIN_TOKEN == "" {
		writeError(w, http.StatusInternalServerError, "Admin API not configured")
		return
	}
	token := r.Header.Get("x-admin-token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(env.ADMIN_TOKEN)) != 1 {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var body InDeleteUsers
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if body.DeleteAll {
		h.deleteAll(w, r)
		return
	}
	if body.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	uid, err := strconv.ParseUint(body.UserID, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if err := h.deleteUser(r.Context(), uint(uid)); err != nil {
		h.logger.Println(err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// deleteAll repeats the single-user procedure for every account, collecting
// per-user outcomes so one bad record never aborts the batch.
func (h *Handlers) deleteAll(w http.ResponseWriter, r *http.Request) {
	var users []model.User
	if err := db.GetDB(r.Context()).Limit(listUsersLimit).Find(&users).Error; err != nil {
		h.logger.Println(err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	results := make([]userResult, 0, len(users))
	for _, u := range users {
		id := strconv.FormatUint(uint64(u.ID), 10)
		if err := h.deleteUser(r.Context(), u.ID); err != nil {
			h.logger.Println(err)
			results = append(results, userResult{UserID: id, Ok: false, Error: err.Error()})
		} else {
			results = append(results, userResult{UserID: id, Ok: true})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "results": results})
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Post("/api/admin/users", h.deleteUsers)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func NewHandlers(logger *log.Logger) *Handlers {
	return &Handlers{logger: logger, deleteUser: deleteUserWithData}
}
