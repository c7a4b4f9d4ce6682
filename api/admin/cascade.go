package admin

import (
	"context"
	"fmt"

	"github.com/sportsme/sportsme-backend/db"
	"github.com/sportsme/sportsme-backend/db/model"
	"gorm.io/gorm"
)

type step struct {
	table  string
	column string
}

// deleteOrder removes a user's dependent rows before the account itself.
// The order satisfies the foreign keys: votes and comments hang off posts,
// posts and memberships off groups, groups off the owner.
var deleteOrder = []step{
	{"poll_votes", "user_id"},
	{"comments", "author_id"},
	{"posts", "author_id"},
	{"group_memberships", "user_id"},
	{"groups", "owner_id"},
}

type stepResult struct {
	Table string
	Err   error
}

// runCascade executes every step regardless of earlier failures and captures
// each outcome. Nothing is rolled back: a step that failed leaves the deletes
// before it in place.
func runCascade(gdb *gorm.DB, userID uint) []stepResult {
	results := make([]stepResult, 0, len(deleteOrder))
	for _, s := range deleteOrder {
		err := gdb.Exec("DELETE FROM "+s.table+" WHERE "+s.column+" = ?", userID).Error
		results = append(results, stepResult{Table: s.table, Err: err})
	}
	return results
}

// deleteUserWithData runs the cascade and, when every step succeeded, removes
// the account: its sessions and the user row.
func deleteUserWithData(ctx context.Context, userID uint) error {
	gdb := db.GetDB(ctx)
	for _, res := range runCascade(gdb, userID) {
		if res.Err != nil {
			return fmt.Errorf("delete %s: %w", res.Table, res.Err)
		}
	}
	if err := gdb.Where("user_id = ?", userID).Delete(&model.Session{}).Error; err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	if err := gdb.Delete(&model.User{}, userID).Error; err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
