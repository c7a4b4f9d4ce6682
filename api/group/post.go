package group

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sportsme/sportsme-backend/db"
	"github.com/sportsme/sportsme-backend/db/model"
	"github.com/sportsme/sportsme-backend/env"
)

const maxUploadBytes = 32 << 20

// createPost inserts the post row first, then best-effort work: sequential
// attachment uploads (a failed file is logged and skipped, never fatal) and
// poll options when the post is a poll with at least two usable options.
// Partial failures come back as warnings on a 200 so clients can surface
// them without treating the post as lost.
func (h *Handlers) createPost(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	g := r.Context().Value("group").(*model.Group)

	if ok, err := isMember(r.Context(), u.ID, g.ID); err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	} else if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("parse form"))
		return
	}

	content := strings.TrimSpace(r.FormValue("content"))
	if content == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("content is required"))
		return
	}
	ptype := model.TypeMessage
	if r.FormValue("type") == "poll" {
		ptype = model.TypePoll
	}

	gdb := db.GetDB(r.Context())
	post := &model.Post{
		GroupID:    g.ID,
		AuthorID:   u.ID,
		AuthorName: u.DisplayName(),
		Content:    content,
		Type:       ptype,
	}
	if err := gdb.Create(post).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var warnings []string
	if r.MultipartForm != nil && len(r.MultipartForm.File["files"]) > 0 {
		warnings = append(warnings, h.saveAttachments(r, g.ID, post.ID, r.MultipartForm.File["files"])...)
	}
	if ptype == model.TypePoll {
		warnings = append(warnings, h.savePollOptions(r, post.ID)...)
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(&OutCreatePost{ID: post.ID, Warnings: warnings})
}

func (h *Handlers) saveAttachments(r *http.Request, groupID, postID uint, files []*multipart.FileHeader) []string {
	rows := make([]model.Attachment, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			h.logger.Println(err)
			continue
		}
		key := objectKey(groupID, postID, fh.Filename)
		url, err := h.store.Upload(r.Context(), env.ATTACHMENTS_BUCKET, key, f, fh.Header.Get("Content-Type"))
		f.Close()
		if err != nil {
			h.logger.Println(err)
			continue
		}
		rows = append(rows, model.Attachment{
			PostID:       postID,
			URL:          url,
			OriginalName: fh.Filename,
			MimeType:     fh.Header.Get("Content-Type"),
			Size:         fh.Size,
		})
	}
	if len(rows) == 0 {
		if len(files) > 0 {
			return []string{"some attachments failed to save"}
		}
		return nil
	}
	if err := db.GetDB(r.Context()).Create(&rows).Error; err != nil {
		h.logger.Println(err)
		return []string{"some attachments failed to save"}
	}
	if len(rows) < len(files) {
		return []string{"some attachments failed to save"}
	}
	return nil
}

func (h *Handlers) savePollOptions(r *http.Request, postID uint) []string {
	rows := make([]model.PollOption, 0)
	for _, text := range r.MultipartForm.Value["option"] {
		if text = strings.TrimSpace(text); text != "" {
			rows = append(rows, model.PollOption{PostID: postID, Text: text})
		}
	}
	// Fewer than two usable options means no poll: zero rows, post stays.
	if len(rows) < 2 {
		return nil
	}
	if err := db.GetDB(r.Context()).Create(&rows).Error; err != nil {
		h.logger.Println(err)
		return []string{"failed to create poll options"}
	}
	return nil
}

// objectKey namespaces uploads by group and post; the millisecond prefix
// keeps same-named files from clobbering each other.
func objectKey(groupID, postID uint, filename string) string {
	name := sanitizeFilename(filename)
	if name == "" {
		name = uuid.NewString()
	}
	return fmt.Sprintf("%d/%d/%d-%s", groupID, postID, time.Now().UnixMilli(), name)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		if r == '-' || r == '_' || r == '.' ||
			(r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			return r
		}
		return '-'
	}, name)
	return strings.Trim(name, "-.")
}
