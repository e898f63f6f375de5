package dto

import (
	"time"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// UpdateProfileRequest lists the only profile fields a student may change.
type UpdateProfileRequest struct {
	Phone   *string                `json:"phone" validate:"omitempty,min=7,max=20"`
	Email   *string                `json:"email" validate:"omitempty,email"`
	Address map[string]interface{} `json:"address"`
}

// StudentProfileResponse is the full profile returned to the owner.
type StudentProfileResponse struct {
	ID             uint                   `json:"id"`
	StudentID      string                 `json:"student_id"`
	FirstName      string                 `json:"first_name"`
	LastName       string                 `json:"last_name"`
	Name           string                 `json:"name"`
	Email          string                 `json:"email"`
	Phone          string                 `json:"phone"`
	DateOfBirth    time.Time              `json:"date_of_birth"`
	Gender         string                 `json:"gender"`
	Address        map[string]interface{} `json:"address"`
	ProfilePhoto   string                 `json:"profile_photo"`
	Department     string                 `json:"department"`
	Course         string                 `json:"course"`
	Semester       int                    `json:"semester"`
	Batch          string                 `json:"batch"`
	EnrollmentDate time.Time              `json:"enrollment_date"`
	RollNumber     string                 `json:"roll_number"`
	FatherName     string                 `json:"father_name"`
	MotherName     string                 `json:"mother_name"`
	GuardianPhone  string                 `json:"guardian_phone"`
	GuardianEmail  string                 `json:"guardian_email"`
	LastLogin      *time.Time             `json:"last_login"`
}

// NewStudentProfileResponse converts a model into a DTO.
func NewStudentProfileResponse(model models.Student) StudentProfileResponse {
	address := map[string]interface{}{}
	for key, value := range model.Address {
		address[key] = value
	}

	photo := model.ProfilePhoto
	if photo == "" {
		photo = models.DefaultProfilePhoto
	}

	return StudentProfileResponse{
		ID:             model.ID,
		StudentID:      model.StudentID,
		FirstName:      model.FirstName,
		LastName:       model.LastName,
		Name:           model.FullName(),
		Email:          model.Email,
		Phone:          model.Phone,
		DateOfBirth:    model.DateOfBirth,
		Gender:         model.Gender,
		Address:        address,
		ProfilePhoto:   photo,
		Department:     model.Department,
		Course:         model.Course,
		Semester:       model.Semester,
		Batch:          model.Batch,
		EnrollmentDate: model.EnrollmentDate,
		RollNumber:     model.RollNumber,
		FatherName:     model.FatherName,
		MotherName:     model.MotherName,
		GuardianPhone:  model.GuardianPhone,
		GuardianEmail:  model.GuardianEmail,
		LastLogin:      model.LastLogin,
	}
}
