package model

// Attachment is only ever written after a successful object-store upload, so
// every row's URL is expected to resolve.
type Attachment struct {
	Base
	PostID       uint   `gorm:"index" json:"post_id"`
	URL          string `json:"url"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
}

func (Attachment) TableName() string {
	return "file_attachments"
}
