package dto

import (
	"time"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// SubmissionRequest carries already uploaded files.
type SubmissionRequest struct {
	Files []AttachmentRequest `json:"files" validate:"required,min=1,dive"`
}

// SubmissionResponse represents a submission returned to the client.
type SubmissionResponse struct {
	ID            uint                `json:"id"`
	AssignmentID  uint                `json:"assignment_id"`
	SubmittedAt   time.Time           `json:"submitted_at"`
	Files         []models.Attachment `json:"files"`
	MarksObtained *float64            `json:"marks_obtained"`
	Feedback      string              `json:"feedback"`
	Status        string              `json:"status"`
}

// NewSubmissionResponse converts a model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:            model.ID,
		AssignmentID:  model.AssignmentID,
		SubmittedAt:   model.SubmittedAt,
		Files:         models.DecodeAttachments(model.Files),
		MarksObtained: model.MarksObtained,
		Feedback:      model.Feedback,
		Status:        model.Status,
	}
}
