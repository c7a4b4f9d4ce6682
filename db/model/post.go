package model

import "database/sql/driver"

type postType string

const (
	TypeMessage postType = "message"
	TypePoll    postType = "poll"
)

// Post is a feed entry, either a plain message or a poll question.
//
// AuthorName is a snapshot of the author's display name at write time. It is
// never rewritten when the user later renames themselves; old posts keep the
// name they were posted under. That divergence is a product decision, not a
// sync bug.
type Post struct {
	Base
	GroupID    uint     `gorm:"index" json:"group_id"`
	AuthorID   uint     `json:"author_id"`
	AuthorName string   `json:"author_name"`
	Content    string   `json:"content"`
	Type       postType `json:"type"`
}

func (t *postType) Scan(value any) error {
	*t = postType(value.(string))
	return nil
}

func (t postType) Value() (driver.Value, error) {
	return string(t), nil
}
