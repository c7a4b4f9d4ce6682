package model

import (
	"database/sql/driver"
	"time"
)

type membershipRole string

const (
	RoleOwner  membershipRole = "owner"
	RoleMember membershipRole = "member"
)

// Membership joins a user to a group. The composite primary key is what makes
// joining idempotent: rejoining upserts on (user, group) instead of adding a
// second row.
type Membership struct {
	CreatedAt time.Time      `json:"created_at"`
	UserID    uint           `gorm:"primaryKey" json:"user_id"`
	GroupID   uint           `gorm:"primaryKey" json:"group_id"`
	Role      membershipRole `json:"role"`
}

func (Membership) TableName() string {
	return "group_memberships"
}

func (r *membershipRole) Scan(value any) error {
	*r = membershipRole(value.(string))
	return nil
}

func (r membershipRole) Value() (driver.Value, error) {
	return string(r), nil
}
