package model

import "time"

// Base deliberately has no soft-delete column: group deletion and the admin
// cascade are permanent removals, and keeping tombstones around would break
// the unique email and join-code columns.
type Base struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}
