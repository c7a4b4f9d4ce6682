package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sportsme/sportsme-backend/db"
	"github.com/sportsme/sportsme-backend/db/model"
	"github.com/sportsme/sportsme-backend/middleware"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Handlers struct {
	logger *log.Logger
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var body InRegister
	encoder, decoder := json.NewEncoder(w), json.NewDecoder(r.Body)
	if err := decoder.Decode(&body); err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Email == "" || body.Name == "" || body.Password == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid input"))
		return
	}
	if addr, err := mail.ParseAddress(body.Email); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid email"))
		return
	} else {
		body.Email = addr.Address
	}
	if exists, err := isUserExist(r.Context(), body.Email); err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	} else if exists {
		w.WriteHeader(http.StatusConflict)
		encoder.Encode("email exists")
		return
	}
	passBytes, err := bcrypt.GenerateFromPassword([]byte(body.Password), 14)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	user := &model.User{
		Email:       body.Email,
		Displayname: body.Name,
		Pass:        string(passBytes),
	}
	if err := db.GetDB(r.Context()).Create(user).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	encoder.Encode(newOutUser(user))
}

func (h *Handlers) signin(w http.ResponseWriter, r *http.Request) {
	var body InSignin
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if len(body.Email) < 1 || len(body.Password) < 1 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid input"))
		return
	}

	c := r.Context()
	u, err := getUserFromEmail(c, body.Email)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if u == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Pass), []byte(body.Password)) != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	ip := c.Value("deviceIP").(string)
	if _, err := findOrCreateSession(c, u.ID, ip); err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	accessToken, err := genAccessToken(ip, strconv.FormatUint(uint64(u.ID), 10))
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    accessToken,
		Expires:  time.Now().Add(accessTokenTTL),
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newOutUser(u))
}

func (h *Handlers) signout(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	s := r.Context().Value("session").(*model.Session)
	if err := db.GetDB(r.Context()).Where(&model.Session{UserID: u.ID, IP: s.IP}).Delete(&model.Session{}).Error; err != nil {
		h.logger.Println(err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) user(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(newOutUser(u)); err != nil {
		h.logger.Println(err)
	}
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/signin", h.signin)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticator(h.logger))
			r.With(middleware.NoCache).Get("/user", h.user)
			r.Post("/signout", h.signout)
		})
	})
}

func isUserExist(ctx context.Context, email string) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var exists bool
	err := db.GetDB(ctx).Raw("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", email).Scan(&exists).Error
	return exists, err
}

func getUserFromEmail(ctx context.Context, email string) (user *model.User, err error) {
	user = &model.User{}
	if ctx == nil {
		ctx = context.Background()
	}
	if err = db.GetDB(ctx).First(user, "email = ?", email).Error; err != nil {
		user = nil
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = nil
		}
	}
	return
}

func findOrCreateSession(ctx context.Context, userID uint, ip string) (*model.Session, error) {
	s := &model.Session{}
	gdb := db.GetDB(ctx)
	err := gdb.Where(&model.Session{UserID: userID, IP: ip}).First(s).Error
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	s = &model.Session{UserID: userID, IP: ip}
	if err := gdb.Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func NewHandlers(logger *log.Logger) *Handlers {
	return &Handlers{logger}
}
