package model

// Comment carries the same author-name snapshot as Post.
type Comment struct {
	Base
	PostID     uint   `gorm:"index" json:"post_id"`
	AuthorID   uint   `json:"author_id"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
}
