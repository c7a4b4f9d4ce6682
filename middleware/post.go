package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sportsme/sportsme-backend/db"
	"github.com/sportsme/sportsme-backend/db/model"
	"gorm.io/gorm"
)

func WithPost(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		pid := chi.URLParam(r, "postID")
		if pid == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var p model.Post
		if err := db.GetDB(r.Context()).First(&p, "id = ?", pid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				w.WriteHeader(http.StatusNotFound)
			} else {
				w.WriteHeader(http.StatusInternalServerError)
			}
			return
		}
		ctx := context.WithValue(r.Context(), "post", &p)
		h.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(fn)
}
