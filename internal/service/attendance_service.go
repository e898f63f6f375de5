package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/events"
	"github.com/noah-isme/student-portal-api/internal/ledger"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/internal/repository"
)

// AttendanceService reports and records attendance.
type AttendanceService interface {
	Overview(ctx context.Context, studentID uint) (dto.AttendanceOverviewResponse, error)
	BySubject(ctx context.Context, studentID uint, subject string) (dto.SubjectAttendanceResponse, error)
	Record(ctx context.Context, payload dto.AttendanceCreateRequest) (dto.AttendanceRecordResponse, error)
}

type attendanceService struct {
	records   repository.AttendanceRepository
	students  repository.StudentRepository
	validator *validator.Validate
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(records repository.AttendanceRepository, students repository.StudentRepository, validate *validator.Validate, publisher events.Publisher, logger zerolog.Logger) AttendanceService {
	if publisher == nil {
		publisher = events.Nop()
	}
	return &attendanceService{
		records:   records,
		students:  students,
		validator: validate,
		publisher: publisher,
		logger:    logger.With().Str("component", "attendance_service").Logger(),
	}
}

func (s *attendanceService) Overview(ctx context.Context, studentID uint) (dto.AttendanceOverviewResponse, error) {
	records, err := s.records.ListByStudent(ctx, studentID, "")
	if err != nil {
		return dto.AttendanceOverviewResponse{}, err
	}

	return dto.AttendanceOverviewResponse{
		Summary:           ledger.SummarizeAttendance(records),
		OverallPercentage: ledger.AttendancePercentage(records),
		Records:           dto.NewAttendanceRecordResponseSlice(records),
	}, nil
}

func (s *attendanceService) BySubject(ctx context.Context, studentID uint, subject string) (dto.SubjectAttendanceResponse, error) {
	subject = strings.TrimSpace(subject)
	records, err := s.records.ListByStudent(ctx, studentID, subject)
	if err != nil {
		return dto.SubjectAttendanceResponse{}, err
	}

	return dto.SubjectAttendanceResponse{
		Subject:    subject,
		Percentage: ledger.AttendancePercentage(records),
		Records:    dto.NewAttendanceRecordResponseSlice(records),
	}, nil
}

func (s *attendanceService) Record(ctx context.Context, payload dto.AttendanceCreateRequest) (dto.AttendanceRecordResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AttendanceRecordResponse{}, err
	}

	date, err := dto.ParseTime(payload.Date)
	if err != nil {
		return dto.AttendanceRecordResponse{}, ErrInvalidDate
	}

	if _, err := loadStudent(ctx, s.students, payload.StudentID); err != nil {
		return dto.AttendanceRecordResponse{}, err
	}

	record := models.AttendanceRecord{
		StudentID: payload.StudentID,
		Subject:   strings.TrimSpace(payload.Subject),
		Date:      date,
		Status:    models.AttendanceStatus(payload.Status),
		Period:    payload.Period,
		MarkedBy:  strings.TrimSpace(payload.MarkedBy),
		Remarks:   strings.TrimSpace(payload.Remarks),
	}

	if err := s.records.Create(ctx, &record); err != nil {
		return dto.AttendanceRecordResponse{}, err
	}

	publishRecordsChanged(ctx, s.publisher, s.logger, record.StudentID, RecordsAttendance)
	s.logger.Info().Uint("student_id", record.StudentID).Str("subject", record.Subject).Msg("attendance recorded")
	return dto.NewAttendanceRecordResponse(record), nil
}
