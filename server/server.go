package server

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/sportsme/sportsme-backend/env"
	"github.com/sportsme/sportsme-backend/middleware"
)

// SetupMiddlewares installs the router-wide stack. Order matters: RealIP must
// run before WithDeviceInfo so audience-bound tokens see the forwarded
// address behind a proxy.
func SetupMiddlewares(r *chi.Mux, logger *log.Logger) {
	r.Use(chimw.RealIP)
	r.Use(requestID)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Admin-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.WithDeviceInfo)
}

func requestID(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		h.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			h.ServeHTTP(ww, r)
			logger.Printf("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
		}
		return http.HandlerFunc(fn)
	}
}

func New(h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + env.APP_PORT,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
