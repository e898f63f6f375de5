package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/internal/repository"
)

// NoClassesMessage is returned when the active timetable has nothing scheduled today.
const NoClassesMessage = "No classes today"

// TimetableService serves the weekly schedule of the student's cohort.
type TimetableService interface {
	Get(ctx context.Context, studentID uint) (dto.TimetableResponse, error)
	Today(ctx context.Context, studentID uint) (dto.TodayScheduleResponse, error)
	Upsert(ctx context.Context, payload dto.TimetableUpsertRequest) (dto.TimetableResponse, error)
}

type timetableService struct {
	timetables repository.TimetableRepository
	students   repository.StudentRepository
	validator  *validator.Validate
	logger     zerolog.Logger
	now        func() time.Time
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(timetables repository.TimetableRepository, students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) TimetableService {
	return &timetableService{
		timetables: timetables,
		students:   students,
		validator:  validate,
		logger:     logger.With().Str("component", "timetable_service").Logger(),
		now:        time.Now,
	}
}

func (s *timetableService) Get(ctx context.Context, studentID uint) (dto.TimetableResponse, error) {
	timetable, err := s.active(ctx, studentID)
	if err != nil {
		return dto.TimetableResponse{}, err
	}
	return dto.NewTimetableResponse(timetable), nil
}

func (s *timetableService) Today(ctx context.Context, studentID uint) (dto.TodayScheduleResponse, error) {
	timetable, err := s.active(ctx, studentID)
	if err != nil {
		return dto.TodayScheduleResponse{}, err
	}

	day := models.Weekdays[s.now().Weekday()]
	today := dto.TodayScheduleResponse{Day: day, Periods: []dto.PeriodResponse{}}
	for _, period := range timetable.Periods {
		if strings.EqualFold(period.Day, day) {
			today.Periods = append(today.Periods, dto.NewPeriodResponse(period))
		}
	}
	if len(today.Periods) == 0 {
		today.Message = NoClassesMessage
	}

	return today, nil
}

func (s *timetableService) Upsert(ctx context.Context, payload dto.TimetableUpsertRequest) (dto.TimetableResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TimetableResponse{}, err
	}

	timetable := models.Timetable{
		Department:   strings.TrimSpace(payload.Department),
		Semester:     payload.Semester,
		AcademicYear: strings.TrimSpace(payload.AcademicYear),
		IsActive:     true,
		Periods:      dto.ToTimetablePeriods(payload.Schedule),
	}

	if err := s.timetables.Upsert(ctx, &timetable); err != nil {
		return dto.TimetableResponse{}, err
	}

	s.logger.Info().
		Uint("timetable_id", timetable.ID).
		Str("department", timetable.Department).
		Int("semester", timetable.Semester).
		Msg("timetable saved")
	return dto.NewTimetableResponse(timetable), nil
}

func (s *timetableService) active(ctx context.Context, studentID uint) (models.Timetable, error) {
	student, err := loadStudent(ctx, s.students, studentID)
	if err != nil {
		return models.Timetable{}, err
	}

	timetable, err := s.timetables.GetActive(ctx, student.Department, student.Semester)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Timetable{}, ErrTimetableNotFound
		}
		return models.Timetable{}, err
	}
	return timetable, nil
}
