package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission statuses.
const (
	SubmissionSubmitted = "Submitted"
	SubmissionGraded    = "Graded"
	SubmissionLate      = "Late"
	// SubmissionMissing is reported for assignments the student has not submitted yet.
	SubmissionMissing = "Not Submitted"
)

// Submission is a student's hand-in for an assignment.
type Submission struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	AssignmentID  uint           `gorm:"not null;uniqueIndex:idx_submission_assignment_student,priority:1" json:"assignment_id"`
	StudentID     uint           `gorm:"not null;uniqueIndex:idx_submission_assignment_student,priority:2" json:"student_id"`
	SubmittedAt   time.Time      `gorm:"not null" json:"submitted_at"`
	Files         datatypes.JSON `gorm:"type:json" json:"files"`
	MarksObtained *float64       `json:"marks_obtained"`
	Feedback      string         `gorm:"type:text" json:"feedback"`
	Status        string         `gorm:"size:16;not null" json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// IsGraded reports whether the submission has a final grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionGraded
}
