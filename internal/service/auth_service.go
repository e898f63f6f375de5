package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/repository"
)

// RoleStudent is the role embedded in tokens issued at login.
const RoleStudent = "student"

// TokenConfig configures access token issuance.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// AuthService signs students in and manages their credentials.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	ChangePassword(ctx context.Context, studentID uint, payload dto.ChangePasswordRequest) error
}

type authService struct {
	students  repository.StudentRepository
	validator *validator.Validate
	tokens    TokenConfig
	logger    zerolog.Logger
	now       func() time.Time
}

type accessClaims struct {
	Role      string `json:"role"`
	StudentID string `json:"student_id"`
	jwt.RegisteredClaims
}

// NewAuthService constructs an AuthService.
func NewAuthService(students repository.StudentRepository, validate *validator.Validate, tokens TokenConfig, logger zerolog.Logger) AuthService {
	if tokens.TTL <= 0 {
		tokens.TTL = 24 * time.Hour
	}

	return &authService{
		students:  students,
		validator: validate,
		tokens:    tokens,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

// HashPassword hashes a plain-text password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	student, err := s.students.GetByStudentID(ctx, strings.TrimSpace(payload.StudentID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(payload.Password)); err != nil {
		s.logger.Info().Str("student_id", student.StudentID).Msg("rejected login with wrong password")
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	if !student.IsActive {
		return dto.LoginResponse{}, ErrAccountDisabled
	}

	now := s.now().UTC()
	if err := s.students.TouchLastLogin(ctx, student.ID, now); err != nil {
		s.logger.Warn().Err(err).Uint("id", student.ID).Msg("failed to record last login")
	}

	expiresAt := now.Add(s.tokens.TTL)
	claims := accessClaims{
		Role:      RoleStudent,
		StudentID: student.StudentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(student.ID), 10),
			Issuer:    s.tokens.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.tokens.Secret))
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Str("student_id", student.StudentID).Msg("student signed in")

	return dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Student:   dto.NewStudentSummary(student),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, studentID uint, payload dto.ChangePasswordRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(payload.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := HashPassword(payload.NewPassword)
	if err != nil {
		return err
	}

	if err := s.students.UpdatePassword(ctx, studentID, hashed); err != nil {
		return err
	}

	s.logger.Info().Uint("id", studentID).Msg("password changed")
	return nil
}
