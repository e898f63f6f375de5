package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/events"
	"github.com/noah-isme/student-portal-api/internal/ledger"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/internal/repository"
)

// ResultService lists and publishes exam results.
type ResultService interface {
	List(ctx context.Context, studentID uint) (dto.ResultListResponse, error)
	BySemester(ctx context.Context, studentID uint, semester int) ([]dto.ResultResponse, error)
	Publish(ctx context.Context, payload dto.ResultCreateRequest) (dto.ResultResponse, error)
}

type resultService struct {
	results   repository.ResultRepository
	students  repository.StudentRepository
	validator *validator.Validate
	publisher events.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewResultService constructs a ResultService.
func NewResultService(results repository.ResultRepository, students repository.StudentRepository, validate *validator.Validate, publisher events.Publisher, logger zerolog.Logger) ResultService {
	if publisher == nil {
		publisher = events.Nop()
	}
	return &resultService{
		results:   results,
		students:  students,
		validator: validate,
		publisher: publisher,
		logger:    logger.With().Str("component", "result_service").Logger(),
		now:       time.Now,
	}
}

func (s *resultService) List(ctx context.Context, studentID uint) (dto.ResultListResponse, error) {
	results, err := s.results.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.ResultListResponse{}, err
	}

	return dto.ResultListResponse{
		CGPA:  cumulativeGPA(results),
		Count: len(results),
		Data:  dto.NewResultResponseSlice(results),
	}, nil
}

func (s *resultService) BySemester(ctx context.Context, studentID uint, semester int) ([]dto.ResultResponse, error) {
	results, err := s.results.ListByStudentSemester(ctx, studentID, semester)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrResultNotFound
	}

	return dto.NewResultResponseSlice(results), nil
}

// Publish aggregates the subjects before inserting the result.
func (s *resultService) Publish(ctx context.Context, payload dto.ResultCreateRequest) (dto.ResultResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResultResponse{}, err
	}

	subjects := dto.ToSubjectResults(payload.Subjects)
	aggregate, err := ledger.AggregateResult(subjects)
	if err != nil {
		return dto.ResultResponse{}, err
	}

	publishedDate := s.now()
	if payload.PublishedDate != nil {
		parsed, err := dto.ParseTime(*payload.PublishedDate)
		if err != nil {
			return dto.ResultResponse{}, ErrInvalidDate
		}
		publishedDate = parsed
	}

	if _, err := loadStudent(ctx, s.students, payload.StudentID); err != nil {
		return dto.ResultResponse{}, err
	}

	sgpa := aggregate.SGPA
	percentage := aggregate.Percentage
	result := models.ResultRecord{
		StudentID:     payload.StudentID,
		Semester:      payload.Semester,
		AcademicYear:  strings.TrimSpace(payload.AcademicYear),
		ExamType:      payload.ExamType,
		Subjects:      subjects,
		SGPA:          &sgpa,
		Percentage:    &percentage,
		Rank:          payload.Rank,
		TotalStudents: payload.TotalStudents,
		PublishedDate: publishedDate,
		Remarks:       strings.TrimSpace(payload.Remarks),
	}

	if err := s.results.Create(ctx, &result); err != nil {
		return dto.ResultResponse{}, err
	}

	publishRecordsChanged(ctx, s.publisher, s.logger, result.StudentID, RecordsResults)
	s.logger.Info().Uint("result_id", result.ID).Float64("sgpa", sgpa).Msg("result published")
	return dto.NewResultResponse(result), nil
}

func cumulativeGPA(results []models.ResultRecord) float64 {
	semesters := make([]ledger.SemesterGPA, 0, len(results))
	for _, result := range results {
		semesters = append(semesters, ledger.SemesterGPA{Semester: result.Semester, SGPA: result.SGPA})
	}
	return ledger.OverallGPA(semesters)
}
