package group

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sportsme/sportsme-backend/db"
	"github.com/sportsme/sportsme-backend/db/model"
	"github.com/sportsme/sportsme-backend/middleware"
	"github.com/sportsme/sportsme-backend/storage"
	"gorm.io/gorm/clause"
)

type Handlers struct {
	logger *log.Logger
	store  storage.Store
}

func (h *Handlers) listGroups(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)

	grps := make([]OutGroup, 0)
	err := db.GetDB(r.Context()).
		Model(&model.Group{}).
		Joins("JOIN group_memberships ON group_memberships.group_id = groups.id").
		Where("group_memberships.user_id = ?", u.ID).
		Order("group_memberships.created_at DESC").
		Find(&grps).
		Error
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(grps)
}

func (h *Handlers) createGroup(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	var body InCreateGroup
	encoder, decoder := json.NewEncoder(w), json.NewDecoder(r.Body)
	err := decoder.Decode(&body)
	if body.Name == nil || *body.Name == "" || err != nil {
		if err != nil {
			h.logger.Println(err)
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	gdb := db.GetDB(r.Context())
	g := &model.Group{
		Name:    *body.Name,
		Code:    newJoinCode(),
		OwnerID: u.ID,
	}
	// A join-code collision trips the unique column and surfaces here.
	if err := gdb.Create(g).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	m := &model.Membership{UserID: u.ID, GroupID: g.ID, Role: model.RoleOwner}
	if err := gdb.Create(m).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	encoder.Encode(newOutGroup(g))
}

func (h *Handlers) joinGroup(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	var body InJoinGroup
	encoder, decoder := json.NewEncoder(w), json.NewDecoder(r.Body)
	err := decoder.Decode(&body)
	if body.Code == nil || *body.Code == "" || err != nil {
		if err != nil {
			h.logger.Println(err)
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	gdb := db.GetDB(r.Context())
	var g model.Group
	if err := gdb.First(&g, "code = ?", *body.Code).Error; err != nil {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("group code not found"))
		return
	}

	// Rejoining is a no-op: conflict on (user_id, group_id) leaves the
	// existing row, and its role, alone.
	m := &model.Membership{UserID: u.ID, GroupID: g.ID, Role: model.RoleMember}
	err = gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "group_id"}},
		DoNothing: true,
	}).Create(m).Error
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	encoder.Encode(newOutGroup(&g))
}

func (h *Handlers) deleteGroup(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	g := r.Context().Value("group").(*model.Group)
	if g.OwnerID != u.ID {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("only the owner can delete a group"))
		return
	}
	// Dependent posts fall to the store's ON DELETE CASCADE.
	if err := db.GetDB(r.Context()).Delete(&model.Group{}, g.ID).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if err := db.GetDB(r.Context()).Where("group_id = ?", g.ID).Delete(&model.Membership{}).Error; err != nil {
		h.logger.Println(err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/groups", func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger))
		r.With(middleware.NoCache).Get("/", h.listGroups)
		r.Post("/", h.createGroup)
		r.Post("/join", h.joinGroup)
		r.With(middleware.WithGroup).Delete("/{groupID}", h.deleteGroup)
		r.With(middleware.WithGroup, middleware.NoCache).Get("/{groupID}/feed", h.getFeed)
		r.With(middleware.WithGroup).Post("/{groupID}/posts", h.createPost)
	})
}

const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Six base-36 characters, short enough to read out loud. Uniqueness is the
// code column's job, not ours.
func newJoinCode() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}

func isMember(ctx context.Context, userID, groupID uint) (bool, error) {
	var exists bool
	err := db.GetDB(ctx).
		Raw("SELECT EXISTS(SELECT 1 FROM group_memberships WHERE user_id = ? AND group_id = ?)", userID, groupID).
		Scan(&exists).
		Error
	return exists, err
}

func NewHandlers(l *log.Logger, store storage.Store) *Handlers {
	return &Handlers{l, store}
}
