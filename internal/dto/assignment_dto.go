package dto

import (
	"time"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// AssignmentCreateRequest describes the payload for creating a new assignment.
type AssignmentCreateRequest struct {
	Title       string              `json:"title" validate:"required,min=3,max=255"`
	Description string              `json:"description" validate:"required,min=10"`
	Subject     string              `json:"subject" validate:"required,max=128"`
	Department  string              `json:"department" validate:"required,max=128"`
	Semester    int                 `json:"semester" validate:"required,min=1,max=12"`
	DueDate     string              `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	TotalMarks  float64             `json:"total_marks" validate:"omitempty,gt=0"`
	Attachments []AttachmentRequest `json:"attachments" validate:"dive"`
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Subject     string              `json:"subject"`
	Department  string              `json:"department"`
	Semester    int                 `json:"semester"`
	DueDate     time.Time           `json:"due_date"`
	TotalMarks  float64             `json:"total_marks"`
	Attachments []models.Attachment `json:"attachments"`
	CreatedBy   string              `json:"created_by"`
	IsOverdue   bool                `json:"is_overdue"`
	Status      string              `json:"status,omitempty"`
	Submission  *SubmissionResponse `json:"submission"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// AssignmentDetailResponse pairs an assignment with the student's submission.
type AssignmentDetailResponse struct {
	Assignment AssignmentResponse  `json:"assignment"`
	Submission *SubmissionResponse `json:"submission"`
}

// NewAssignmentResponse converts a model into a DTO relative to now.
func NewAssignmentResponse(model models.Assignment, now time.Time) AssignmentResponse {
	return AssignmentResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Subject:     model.Subject,
		Department:  model.Department,
		Semester:    model.Semester,
		DueDate:     model.DueDate,
		TotalMarks:  model.TotalMarks,
		Attachments: models.DecodeAttachments(model.Attachments),
		CreatedBy:   model.CreatedBy,
		IsOverdue:   model.IsPastDue(now),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// AssignmentUpdateRequest changes selected fields of an assignment.
type AssignmentUpdateRequest struct {
	Title       *string              `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string              `json:"description" validate:"omitempty,min=10"`
	Subject     *string              `json:"subject" validate:"omitempty,max=128"`
	DueDate     *string              `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	TotalMarks  *float64             `json:"total_marks" validate:"omitempty,gt=0"`
	Attachments *[]AttachmentRequest `json:"attachments" validate:"omitempty,dive"`
}

// AssignmentFilter narrows the staff assignment listing.
type AssignmentFilter struct {
	Department string `query:"department" validate:"omitempty,max=128"`
	Semester   int    `query:"semester" validate:"omitempty,min=1,max=12"`
	Subject    string `query:"subject" validate:"omitempty,max=128"`
	Search     string `query:"search" validate:"omitempty,max=255"`
	Sort       string `query:"sort" validate:"omitempty,max=32"`
	Page       int    `query:"page" validate:"omitempty,min=1"`
	PageSize   int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

// AssignmentListResponse is a page of assignments.
type AssignmentListResponse struct {
	Items      []AssignmentResponse `json:"items"`
	Pagination PaginationMeta       `json:"pagination"`
}

// PaginationMeta describes the page returned.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}
