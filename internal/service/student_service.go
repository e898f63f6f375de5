package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/internal/repository"
)

// StudentService exposes the signed-in student's profile.
type StudentService interface {
	GetProfile(ctx context.Context, studentID uint) (dto.StudentProfileResponse, error)
	UpdateProfile(ctx context.Context, studentID uint, payload dto.UpdateProfileRequest) (dto.StudentProfileResponse, error)
}

type studentService struct {
	students  repository.StudentRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  students,
		validator: validate,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) GetProfile(ctx context.Context, studentID uint) (dto.StudentProfileResponse, error) {
	student, err := loadStudent(ctx, s.students, studentID)
	if err != nil {
		return dto.StudentProfileResponse{}, err
	}

	return dto.NewStudentProfileResponse(student), nil
}

func (s *studentService) UpdateProfile(ctx context.Context, studentID uint, payload dto.UpdateProfileRequest) (dto.StudentProfileResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentProfileResponse{}, err
	}

	update := repository.StudentProfileUpdate{Address: payload.Address}
	if payload.Phone != nil {
		phone := strings.TrimSpace(*payload.Phone)
		update.Phone = &phone
	}
	if payload.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*payload.Email))
		taken, err := s.students.EmailTaken(ctx, email, studentID)
		if err != nil {
			return dto.StudentProfileResponse{}, err
		}
		if taken {
			return dto.StudentProfileResponse{}, ErrEmailTaken
		}
		update.Email = &email
	}

	student, err := s.students.UpdateProfile(ctx, studentID, update)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentProfileResponse{}, ErrStudentNotFound
		}
		return dto.StudentProfileResponse{}, err
	}

	s.logger.Info().Uint("id", studentID).Msg("profile updated")
	return dto.NewStudentProfileResponse(student), nil
}

func loadStudent(ctx context.Context, students repository.StudentRepository, id uint) (models.Student, error) {
	student, err := students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrStudentNotFound
		}
		return models.Student{}, err
	}
	return student, nil
}
