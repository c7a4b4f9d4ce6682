package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sportsme/sportsme-backend/db"
	"github.com/sportsme/sportsme-backend/db/model"
	"github.com/sportsme/sportsme-backend/env"
	"gorm.io/gorm"
)

// Authenticator resolves the accessToken cookie into a user and session and
// stores both on the request context. The token's audience must match the
// client IP placed there by WithDeviceInfo, which pins a token to the device
// it was issued to.
func Authenticator(logger *log.Logger) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie("accessToken")
			if err != nil {
				if errors.Is(err, http.ErrNoCookie) {
					w.WriteHeader(http.StatusUnauthorized)
				} else {
					logger.Println(err)
					w.WriteHeader(http.StatusInternalServerError)
				}
				return
			}
			t, err := jwt.Parse(c.Value, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return env.HS256_SECRET, nil
			})
			if err != nil || !t.Valid {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			claims, ok := t.Claims.(jwt.MapClaims)
			if !ok || claims["aud"] != r.Context().Value("deviceIP") {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			uid, _ := claims["sub"].(string)
			ip, _ := claims["aud"].(string)

			gdb := db.GetDB(r.Context())
			var u model.User
			if err := gdb.First(&u, "id = ?", uid).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					w.WriteHeader(http.StatusForbidden)
				} else {
					logger.Println(err)
					w.WriteHeader(http.StatusInternalServerError)
				}
				return
			}
			var s model.Session
			if err := gdb.Where(&model.Session{UserID: u.ID, IP: ip}).First(&s).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					w.WriteHeader(http.StatusForbidden)
					w.Write([]byte("session does not exist"))
				} else {
					logger.Println(err)
					w.WriteHeader(http.StatusInternalServerError)
				}
				return
			}
			ctx := context.WithValue(context.WithValue(r.Context(), "user", &u), "session", &s)
			h.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
