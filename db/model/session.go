package model

import (
	"time"
)

// Session is one signed-in device, keyed by (user, client IP). The access
// token's audience claim must match the IP of an existing session.
type Session struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	IP        string    `json:"ip" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
