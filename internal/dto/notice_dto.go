package dto

import (
	"time"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// NoticeCreateRequest publishes a notice.
type NoticeCreateRequest struct {
	Title       string              `json:"title" validate:"required,max=255"`
	Content     string              `json:"content" validate:"required"`
	Category    string              `json:"category" validate:"required,oneof=General Academic Exam Event Holiday Emergency Fee Placement"`
	Priority    string              `json:"priority" validate:"omitempty,oneof=Low Medium High Urgent"`
	AllStudents bool                `json:"all_students"`
	Departments []string            `json:"departments" validate:"dive,required,max=128"`
	Semesters   []int               `json:"semesters" validate:"dive,min=1,max=12"`
	Courses     []string            `json:"courses" validate:"dive,required,max=128"`
	Attachments []AttachmentRequest `json:"attachments" validate:"dive"`
	ExpiryDate  *string             `json:"expiry_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// NoticeResponse is a notice visible to students.
type NoticeResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	Content     string              `json:"content"`
	Category    string              `json:"category"`
	Priority    string              `json:"priority"`
	AllStudents bool                `json:"all_students"`
	Departments []string            `json:"departments"`
	Semesters   []int               `json:"semesters"`
	Courses     []string            `json:"courses"`
	Attachments []models.Attachment `json:"attachments"`
	PublishedBy string              `json:"published_by"`
	PublishDate time.Time           `json:"publish_date"`
	ExpiryDate  *time.Time          `json:"expiry_date"`
	Views       int                 `json:"views"`
}

// NoticeListResponse lists notices in display order and grouped by category.
type NoticeListResponse struct {
	Count   int                         `json:"count"`
	Data    []NoticeResponse            `json:"data"`
	Grouped map[string][]NoticeResponse `json:"grouped"`
}

// NewNoticeResponse converts a model into a DTO.
func NewNoticeResponse(model models.Notice) NoticeResponse {
	departments := model.Departments
	if departments == nil {
		departments = []string{}
	}
	semesters := model.Semesters
	if semesters == nil {
		semesters = []int{}
	}
	courses := model.Courses
	if courses == nil {
		courses = []string{}
	}

	return NoticeResponse{
		ID:          model.ID,
		Title:       model.Title,
		Content:     model.Content,
		Category:    model.Category,
		Priority:    model.Priority,
		AllStudents: model.AllStudents,
		Departments: departments,
		Semesters:   semesters,
		Courses:     courses,
		Attachments: models.DecodeAttachments(model.Attachments),
		PublishedBy: model.PublishedBy,
		PublishDate: model.PublishDate,
		ExpiryDate:  model.ExpiryDate,
		Views:       model.Views,
	}
}
