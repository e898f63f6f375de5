package dto

import (
	"time"

	"github.com/noah-isme/student-portal-api/internal/models"
)

const isoLayout = time.RFC3339

// AttachmentRequest references an already uploaded file.
type AttachmentRequest struct {
	Filename string `json:"filename" validate:"required,max=255"`
	URL      string `json:"url" validate:"required,url"`
}

// ToAttachments converts request attachments into their model representation.
func ToAttachments(items []AttachmentRequest) []models.Attachment {
	attachments := make([]models.Attachment, 0, len(items))
	for _, item := range items {
		attachments = append(attachments, models.Attachment{Filename: item.Filename, URL: item.URL})
	}
	return attachments
}

// ParseTime parses an RFC3339 timestamp.
func ParseTime(value string) (time.Time, error) {
	return time.Parse(isoLayout, value)
}
