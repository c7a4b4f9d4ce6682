package db

import (
	"context"

	"github.com/sportsme/sportsme-backend/db/model"
	"github.com/sportsme/sportsme-backend/env"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// Init opens the Postgres connection configured by DB_CONN and migrates the
// schema. Called once from main; tests install their own handle via Set.
func Init() error {
	gdb, err := gorm.Open(postgres.Open(env.DB_CONN), &gorm.Config{})
	if err != nil {
		return err
	}
	return Set(gdb)
}

// Set migrates the schema on gdb and makes it the package handle.
func Set(gdb *gorm.DB) error {
	models := []any{
		&model.User{},
		&model.Session{},
		&model.Group{},
		&model.Membership{},
		&model.Post{},
		&model.Comment{},
		&model.Attachment{},
		&model.PollOption{},
		&model.PollVote{},
	}
	for _, m := range models {
		if err := gdb.AutoMigrate(m); err != nil {
			return err
		}
	}
	db = gdb
	return nil
}

func GetDB(ctx context.Context) *gorm.DB {
	return db.WithContext(ctx)
}
