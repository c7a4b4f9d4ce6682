package group

import (
	"time"

	"github.com/sportsme/sportsme-backend/db/model"
)

type InCreateGroup struct {
	Name *string `json:"name"`
}

type InJoinGroup struct {
	Code *string `json:"code"`
}

type OutGroup struct {
	model.Base
	Name    string `json:"name"`
	Code    string `json:"code"`
	OwnerID uint   `json:"owner_id"`
}

func newOutGroup(g *model.Group) *OutGroup {
	return &OutGroup{Base: g.Base, Name: g.Name, Code: g.Code, OwnerID: g.OwnerID}
}

type OutFeed struct {
	Posts []*OutPost `json:"posts"`
}

type OutPost struct {
	ID          uint            `json:"id"`
	GroupID     uint            `json:"group_id"`
	AuthorName  string          `json:"author_name"`
	Content     string          `json:"content"`
	Type        string          `json:"type"`
	CreatedAt   time.Time       `json:"created_at"`
	Comments    []OutComment    `json:"comments"`
	Attachments []OutAttachment `json:"attachments"`
	Poll        *OutPoll        `json:"poll,omitempty"`
}

type OutComment struct {
	ID         uint      `json:"id"`
	PostID     uint      `json:"post_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type OutAttachment struct {
	ID           uint   `json:"id"`
	PostID       uint   `json:"post_id"`
	URL          string `json:"url"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
}

type OutPoll struct {
	Options    []OutPollOption `json:"options"`
	TotalVotes int             `json:"total_votes"`
	MyVote     *uint           `json:"my_vote"`
}

type OutPollOption struct {
	ID      uint   `json:"id"`
	Text    string `json:"text"`
	Votes   int    `json:"votes"`
	Percent int    `json:"percent"`
}

type OutCreatePost struct {
	ID       uint     `json:"id"`
	Warnings []string `json:"warnings,omitempty"`
}
