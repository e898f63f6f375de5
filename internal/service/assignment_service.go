package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/internal/repository"
)

// FileUploader abstracts uploading binary data and returning a URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

var allowedSubmissionTypes = []string{
	"application/pdf",
	"application/zip",
	"application/x-zip-compressed",
	"text/plain",
	"image/png",
	"image/jpeg",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// AssignmentService exposes coursework to students and staff.
type AssignmentService interface {
	List(ctx context.Context, studentID uint) ([]dto.AssignmentResponse, error)
	Get(ctx context.Context, studentID, assignmentID uint) (dto.AssignmentDetailResponse, error)
	Submit(ctx context.Context, studentID, assignmentID uint, payload dto.SubmissionRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error)
	AdminList(ctx context.Context, filter dto.AssignmentFilter) (dto.AssignmentListResponse, error)
	Create(ctx context.Context, createdBy string, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	Update(ctx context.Context, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, id uint) error
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	students    repository.StudentRepository
	validator   *validator.Validate
	uploader    FileUploader
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssignmentService builds a new assignment service. A nil uploader disables
// multipart submissions.
func NewAssignmentService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, students repository.StudentRepository, validate *validator.Validate, uploader FileUploader, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		submissions: submissions,
		students:    students,
		validator:   validate,
		uploader:    uploader,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
		now:         time.Now,
	}
}

// List returns the cohort's assignments ordered by due date with the student's status.
func (s *assignmentService) List(ctx context.Context, studentID uint) ([]dto.AssignmentResponse, error) {
	student, err := loadStudent(ctx, s.students, studentID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignments.ListForCohort(ctx, student.Department, student.Semester)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(assignments))
	for _, assignment := range assignments {
		ids = append(ids, assignment.ID)
	}

	byAssignment, err := s.submissions.ForStudent(ctx, studentID, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		response := dto.NewAssignmentResponse(assignment, now)
		response.Status = models.SubmissionMissing
		if submission, ok := byAssignment[assignment.ID]; ok {
			item := dto.NewSubmissionResponse(submission)
			response.Submission = &item
			response.Status = submission.Status
		}
		responses = append(responses, response)
	}

	return responses, nil
}

func (s *assignmentService) Get(ctx context.Context, studentID, assignmentID uint) (dto.AssignmentDetailResponse, error) {
	student, err := loadStudent(ctx, s.students, studentID)
	if err != nil {
		return dto.AssignmentDetailResponse{}, err
	}

	assignment, err := s.cohortAssignment(ctx, student, assignmentID)
	if err != nil {
		return dto.AssignmentDetailResponse{}, err
	}

	detail := dto.AssignmentDetailResponse{Assignment: dto.NewAssignmentResponse(assignment, s.now())}
	detail.Assignment.Status = models.SubmissionMissing

	submission, err := s.submissions.Find(ctx, assignment.ID, studentID)
	switch {
	case err == nil:
		item := dto.NewSubmissionResponse(submission)
		detail.Submission = &item
		detail.Assignment.Submission = &item
		detail.Assignment.Status = submission.Status
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return dto.AssignmentDetailResponse{}, err
	}

	return detail, nil
}

// Submit records the student's hand-in. Files come either from the JSON payload
// or from a multipart upload; submissions after the deadline are marked Late.
func (s *assignmentService) Submit(ctx context.Context, studentID, assignmentID uint, payload dto.SubmissionRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error) {
	if file == nil {
		if err := s.validator.Struct(payload); err != nil {
			return dto.SubmissionResponse{}, err
		}
	}

	student, err := loadStudent(ctx, s.students, studentID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.cohortAssignment(ctx, student, assignmentID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if _, err := s.submissions.Find(ctx, assignment.ID, studentID); err == nil {
		return dto.SubmissionResponse{}, ErrAlreadySubmitted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubmissionResponse{}, err
	}

	files := dto.ToAttachments(payload.Files)
	if file != nil {
		uploaded, err := s.upload(ctx, file)
		if err != nil {
			return dto.SubmissionResponse{}, err
		}
		files = append(files, uploaded)
	}

	encoded, err := models.EncodeAttachments(files)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	now := s.now()
	status := models.SubmissionSubmitted
	if assignment.IsPastDue(now) {
		status = models.SubmissionLate
	}

	submission := models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    studentID,
		SubmittedAt:  now,
		Files:        encoded,
		Status:       status,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		if errors.Is(err, repository.ErrDuplicateSubmission) {
			return dto.SubmissionResponse{}, ErrAlreadySubmitted
		}
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("assignment_id", assignment.ID).
		Str("status", status).
		Msg("assignment submitted")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *assignmentService) AdminList(ctx context.Context, filter dto.AssignmentFilter) (dto.AssignmentListResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return dto.AssignmentListResponse{}, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	assignments, total, err := s.assignments.Search(ctx, repository.AssignmentQuery{
		Department: filter.Department,
		Semester:   filter.Semester,
		Subject:    filter.Subject,
		Search:     filter.Search,
		Sort:       filter.Sort,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return dto.AssignmentListResponse{}, err
	}

	now := s.now()
	items := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		items = append(items, dto.NewAssignmentResponse(assignment, now))
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return dto.AssignmentListResponse{
		Items: items,
		Pagination: dto.PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *assignmentService) Create(ctx context.Context, createdBy string, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	dueDate, err := dto.ParseTime(payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, ErrInvalidDate
	}

	attachments, err := models.EncodeAttachments(dto.ToAttachments(payload.Attachments))
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	totalMarks := payload.TotalMarks
	if totalMarks <= 0 {
		totalMarks = 100
	}

	assignment := models.Assignment{
		Title:       strings.TrimSpace(payload.Title),
		Description: strings.TrimSpace(payload.Description),
		Subject:     strings.TrimSpace(payload.Subject),
		Department:  strings.TrimSpace(payload.Department),
		Semester:    payload.Semester,
		DueDate:     dueDate,
		TotalMarks:  totalMarks,
		Attachments: attachments,
		CreatedBy:   strings.TrimSpace(createdBy),
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Msg("assignment created")
	return dto.NewAssignmentResponse(assignment, s.now()), nil
}

func (s *assignmentService) Update(ctx context.Context, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if payload.Title != nil {
		assignment.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Description != nil {
		assignment.Description = strings.TrimSpace(*payload.Description)
	}
	if payload.Subject != nil {
		assignment.Subject = strings.TrimSpace(*payload.Subject)
	}
	if payload.TotalMarks != nil {
		assignment.TotalMarks = *payload.TotalMarks
	}
	if payload.DueDate != nil {
		dueDate, err := dto.ParseTime(*payload.DueDate)
		if err != nil {
			return dto.AssignmentResponse{}, ErrInvalidDate
		}
		assignment.DueDate = dueDate
	}
	if payload.Attachments != nil {
		attachments, err := models.EncodeAttachments(dto.ToAttachments(*payload.Attachments))
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.Attachments = attachments
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Msg("assignment updated")
	return dto.NewAssignmentResponse(assignment, s.now()), nil
}

func (s *assignmentService) Delete(ctx context.Context, id uint) error {
	if err := s.assignments.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	s.logger.Info().Uint("assignment_id", id).Msg("assignment deleted")
	return nil
}

func (s *assignmentService) cohortAssignment(ctx context.Context, student models.Student, id uint) (models.Assignment, error) {
	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return models.Assignment{}, err
	}
	if !strings.EqualFold(assignment.Department, student.Department) || assignment.Semester != student.Semester {
		return models.Assignment{}, ErrAssignmentNotFound
	}
	return assignment, nil
}

func (s *assignmentService) getAssignment(ctx context.Context, id uint) (models.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}
	return assignment, nil
}

func (s *assignmentService) upload(ctx context.Context, file *multipart.FileHeader) (models.Attachment, error) {
	if s.uploader == nil {
		return models.Attachment{}, ErrUploaderUnavailable
	}

	if err := validateFileType(file); err != nil {
		return models.Attachment{}, err
	}

	reader, err := file.Open()
	if err != nil {
		return models.Attachment{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	url, err := s.uploader.Upload(ctx, file.Filename, reader)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("failed to upload file: %w", err)
	}

	return models.Attachment{Filename: file.Filename, URL: url}, nil
}

func validateFileType(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	detected, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}

	for _, allowed := range allowedSubmissionTypes {
		if detected.Is(allowed) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedFileType, detected.String())
}
