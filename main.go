package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sportsme/sportsme-backend/api/admin"
	"github.com/sportsme/sportsme-backend/api/auth"
	"github.com/sportsme/sportsme-backend/api/group"
	"github.com/sportsme/sportsme-backend/api/post"
	"github.com/sportsme/sportsme-backend/db"
	"github.com/sportsme/sportsme-backend/env"
	"github.com/sportsme/sportsme-backend/server"
	"github.com/sportsme/sportsme-backend/storage"
)

func main() {
	logger := log.New(os.Stdout, "sportsme-backend ", log.LstdFlags|log.Lshortfile)

	env.Load()
	if missing := env.Missing(); len(missing) > 0 {
		logger.Fatalf("missing required environment: %s", strings.Join(missing, ", "))
	}
	if env.ADMIN_TOKEN == "" {
		logger.Println("ADMIN_TOKEN is not set, admin delete API will reject all requests")
	}
	if err := db.Init(); err != nil {
		logger.Fatalln(err)
	}

	r := chi.NewRouter()
	server.SetupMiddlewares(r, logger)

	auth.NewHandlers(logger).SetupRoutes(r)
	group.NewHandlers(logger, storage.New()).SetupRoutes(r)
	post.NewHandlers(logger).SetupRoutes(r)
	admin.NewHandlers(logger).SetupRoutes(r)

	srv := server.New(r)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	logger.Println("listening on :" + env.APP_PORT)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalln(err)
	}
}
