package models

import (
	"time"

	"gorm.io/datatypes"
)

// Assignment is coursework published to a department and semester.
type Assignment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Subject     string         `gorm:"size:128;not null" json:"subject"`
	Department  string         `gorm:"size:128;not null;index" json:"department"`
	Semester    int            `gorm:"not null;index" json:"semester"`
	DueDate     time.Time      `gorm:"not null" json:"due_date"`
	TotalMarks  float64        `gorm:"not null;default:100" json:"total_marks"`
	Attachments datatypes.JSON `gorm:"type:json" json:"attachments"`
	CreatedBy   string         `gorm:"size:64;not null" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Submissions []Submission   `json:"-"`
}

// IsPastDue returns true when the assignment deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}
