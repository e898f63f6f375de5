package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Gender values accepted for a student profile.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// DefaultProfilePhoto is assigned when a student has not uploaded a picture.
const DefaultProfilePhoto = "https://via.placeholder.com/150"

// Student represents an enrolled learner that can sign in to the portal.
type Student struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	StudentID      string            `gorm:"size:64;uniqueIndex;not null" json:"student_id"`
	PasswordHash   string            `gorm:"size:255;not null" json:"-"`
	FirstName      string            `gorm:"size:128;not null" json:"first_name"`
	LastName       string            `gorm:"size:128;not null" json:"last_name"`
	Email          string            `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone          string            `gorm:"size:32;not null" json:"phone"`
	DateOfBirth    time.Time         `json:"date_of_birth"`
	Gender         string            `gorm:"size:16" json:"gender"`
	Address        datatypes.JSONMap `gorm:"type:json" json:"address"`
	ProfilePhoto   string            `gorm:"size:512" json:"profile_photo"`
	Department     string            `gorm:"size:128;index;not null" json:"department"`
	Course         string            `gorm:"size:128;not null" json:"course"`
	Semester       int               `gorm:"index;not null" json:"semester"`
	Batch          string            `gorm:"size:32" json:"batch"`
	EnrollmentDate time.Time         `json:"enrollment_date"`
	RollNumber     string            `gorm:"size:64;uniqueIndex;not null" json:"roll_number"`
	FatherName     string            `gorm:"size:128" json:"father_name"`
	MotherName     string            `gorm:"size:128" json:"mother_name"`
	GuardianPhone  string            `gorm:"size:32" json:"guardian_phone"`
	GuardianEmail  string            `gorm:"size:255" json:"guardian_email"`
	IsActive       bool              `gorm:"not null" json:"is_active"`
	LastLogin      *time.Time        `json:"last_login"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// FullName joins the first and last name.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
