package group

import (
	"math"

	"github.com/sportsme/sportsme-backend/db/model"
)

// tally computes a poll's per-option vote counts and rounded percentages from
// rows already in memory. 2 votes against 1 comes out 67/33.
func tally(postID uint, options []model.PollOption, votes []model.PollVote, userID uint) *OutPoll {
	poll := &OutPoll{Options: make([]OutPollOption, 0)}

	counts := make(map[uint]int)
	for _, v := range votes {
		if v.PostID != postID {
			continue
		}
		counts[v.OptionID]++
		poll.TotalVotes++
		if v.UserID == userID {
			id := v.OptionID
			poll.MyVote = &id
		}
	}
	for _, o := range options {
		if o.PostID != postID {
			continue
		}
		opt := OutPollOption{ID: o.ID, Text: o.Text, Votes: counts[o.ID]}
		if poll.TotalVotes > 0 {
			opt.Percent = int(math.Round(float64(opt.Votes) / float64(poll.TotalVotes) * 100))
		}
		poll.Options = append(poll.Options, opt)
	}
	return poll
}
