package dto

import (
	"time"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// LoginRequest is the payload for student sign-in.
type LoginRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// ChangePasswordRequest is the payload for changing the current password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// StudentSummary is the compact student representation embedded in other payloads.
type StudentSummary struct {
	ID           uint   `json:"id"`
	StudentID    string `json:"student_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Department   string `json:"department"`
	Semester     int    `json:"semester"`
	ProfilePhoto string `json:"profile_photo"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Student   StudentSummary `json:"student"`
}

// NewStudentSummary converts a model into a DTO.
func NewStudentSummary(student models.Student) StudentSummary {
	photo := student.ProfilePhoto
	if photo == "" {
		photo = models.DefaultProfilePhoto
	}

	return StudentSummary{
		ID:           student.ID,
		StudentID:    student.StudentID,
		Name:         student.FullName(),
		Email:        student.Email,
		Department:   student.Department,
		Semester:     student.Semester,
		ProfilePhoto: photo,
	}
}
