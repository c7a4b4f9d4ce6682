package post

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sportsme/sportsme-backend/db"
	"github.com/sportsme/sportsme-backend/db/model"
	"github.com/sportsme/sportsme-backend/middleware"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Handlers struct {
	logger *log.Logger
}

func (h *Handlers) createComment(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	p := r.Context().Value("post").(*model.Post)

	if !h.requireMember(w, r, u.ID, p.GroupID) {
		return
	}

	var body InCreateComment
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&body); err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if body.Content == nil || strings.TrimSpace(*body.Content) == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("content is required"))
		return
	}

	c := &model.Comment{
		PostID:     p.ID,
		AuthorID:   u.ID,
		AuthorName: u.DisplayName(),
		Content:    strings.TrimSpace(*body.Content),
	}
	if err := db.GetDB(r.Context()).Create(c).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(c)
}

// vote upserts on (post_id, user_id): re-voting replaces the earlier choice
// instead of adding a second ballot.
func (h *Handlers) vote(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	p := r.Context().Value("post").(*model.Post)

	if !h.requireMember(w, r, u.ID, p.GroupID) {
		return
	}

	var body InVote
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if body.OptionID == nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("missing field: option_id"))
		return
	}

	gdb := db.GetDB(r.Context())
	var opt model.PollOption
	if err := gdb.Where(&model.PollOption{PostID: p.ID}).First(&opt, "id = ?", *body.OptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("invalid option"))
		} else {
			h.logger.Println(err)
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	v := &model.PollVote{PostID: p.ID, OptionID: opt.ID, UserID: u.ID}
	err := gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"option_id", "updated_at"}),
	}).Create(v).Error
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) requireMember(w http.ResponseWriter, r *http.Request, userID, groupID uint) bool {
	ok, err := isMember(r.Context(), userID, groupID)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return false
	}
	if !ok {
		w.WriteHeader(http.StatusForbidden)
		return false
	}
	return true
}

func isMember(ctx context.Context, userID, groupID uint) (bool, error) {
	var exists bool
	err := db.GetDB(ctx).
		Raw("SELECT EXISTS(SELECT 1 FROM group_memberships WHERE user_id = ? AND group_id = ?)", userID, groupID).
		Scan(&exists).
		Error
	return exists, err
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/posts", func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger))
		r.With(middleware.WithPost).Post("/{postID}/comments", h.createComment)
		r.With(middleware.WithPost).Put("/{postID}/vote", h.vote)
	})
}

func NewHandlers(l *log.Logger) *Handlers {
	return &Handlers{l}
}
