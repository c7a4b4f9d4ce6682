package model

// PollOption rows exist only for posts of type "poll", written once at post
// creation.
type PollOption struct {
	Base
	PostID uint   `gorm:"index" json:"post_id"`
	Text   string `json:"text"`
}

// PollVote is one user's ballot on one poll. The unique index on
// (post_id, user_id) turns a second vote into an upsert that replaces the
// chosen option.
type PollVote struct {
	Base
	PostID   uint `gorm:"uniqueIndex:idx_poll_votes_post_user" json:"post_id"`
	OptionID uint `json:"option_id"`
	UserID   uint `gorm:"uniqueIndex:idx_poll_votes_post_user" json:"user_id"`
}
