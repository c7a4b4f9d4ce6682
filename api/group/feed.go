package group

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sportsme/sportsme-backend/db"
	"github.com/sportsme/sportsme-backend/db/model"
)

func (h *Handlers) getFeed(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	g := r.Context().Value("group").(*model.Group)

	if ok, err := isMember(r.Context(), u.ID, g.ID); err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	} else if !ok {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	feed, err := LoadFeed(r.Context(), u.ID, g.ID)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(feed)
}

// LoadFeed assembles a group's feed: posts newest first, then the dependent
// comment, attachment, poll-option and poll-vote rows constrained to those
// posts, queried in that fixed order. The first failing query aborts the
// rest; there is no pagination.
func LoadFeed(ctx context.Context, userID, groupID uint) (*OutFeed, error) {
	gdb := db.GetDB(ctx)

	var posts []model.Post
	if err := gdb.Where("group_id = ?", groupID).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	feed := &OutFeed{Posts: make([]*OutPost, 0, len(posts))}
	if len(posts) == 0 {
		return feed, nil
	}
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	var comments []model.Comment
	if err := gdb.Where("post_id IN ?", ids).Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	var attachments []model.Attachment
	if err := gdb.Where("post_id IN ?", ids).Find(&attachments).Error; err != nil {
		return nil, fmt.Errorf("load attachments: %w", err)
	}
	var options []model.PollOption
	if err := gdb.Where("post_id IN ?", ids).Find(&options).Error; err != nil {
		return nil, fmt.Errorf("load poll options: %w", err)
	}
	var votes []model.PollVote
	if err := gdb.Where("post_id IN ?", ids).Find(&votes).Error; err != nil {
		return nil, fmt.Errorf("load poll votes: %w", err)
	}

	for i := range posts {
		feed.Posts = append(feed.Posts, assemblePost(&posts[i], comments, attachments, options, votes, userID))
	}
	return feed, nil
}

func assemblePost(p *model.Post, comments []model.Comment, attachments []model.Attachment, options []model.PollOption, votes []model.PollVote, userID uint) *OutPost {
	out := &OutPost{
		ID:          p.ID,
		GroupID:     p.GroupID,
		AuthorName:  p.AuthorName,
		Content:     p.Content,
		Type:        string(p.Type),
		CreatedAt:   p.CreatedAt,
		Comments:    make([]OutComment, 0),
		Attachments: make([]OutAttachment, 0),
	}
	for _, c := range comments {
		if c.PostID != p.ID {
			continue
		}
		out.Comments = append(out.Comments, OutComment{
			ID:         c.ID,
			PostID:     c.PostID,
			AuthorName: c.AuthorName,
			Content:    c.Content,
			CreatedAt:  c.CreatedAt,
		})
	}
	for _, a := range attachments {
		if a.PostID != p.ID {
			continue
		}
		out.Attachments = append(out.Attachments, OutAttachment{
			ID:           a.ID,
			PostID:       a.PostID,
			URL:          a.URL,
			OriginalName: a.OriginalName,
			MimeType:     a.MimeType,
			Size:         a.Size,
		})
	}
	if p.Type == model.TypePoll {
		out.Poll = tally(p.ID, options, votes, userID)
	}
	return out
}
