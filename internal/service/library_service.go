package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/events"
	"github.com/noah-isme/student-portal-api/internal/ledger"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/internal/observability"
	"github.com/noah-isme/student-portal-api/internal/repository"
)

// LibraryService manages loans, fines and renewals.
type LibraryService interface {
	Overview(ctx context.Context, studentID uint) (dto.LibraryOverviewResponse, error)
	Renew(ctx context.Context, studentID, loanID uint) (dto.LoanResponse, error)
	Issue(ctx context.Context, payload dto.LoanIssueRequest) (dto.LoanResponse, error)
	Return(ctx context.Context, loanID uint, payload dto.LoanCloseRequest) (dto.LoanResponse, error)
	MarkLost(ctx context.Context, loanID uint, payload dto.LoanCloseRequest) (dto.LoanResponse, error)
}

// LoanRenewed is published after a successful renewal.
type LoanRenewed struct {
	LoanID       uint      `json:"loan_id"`
	StudentID    uint      `json:"student_id"`
	BookID       string    `json:"book_id"`
	DueDate      time.Time `json:"due_date"`
	RenewalCount int       `json:"renewal_count"`
}

type libraryService struct {
	loans      repository.LibraryRepository
	students   repository.StudentRepository
	validator  *validator.Validate
	publisher  events.Publisher
	policy     ledger.LoanPolicy
	maxRetries int
	logger     zerolog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewLibraryService constructs a LibraryService applying policy to new loans and renewals.
func NewLibraryService(loans repository.LibraryRepository, students repository.StudentRepository, validate *validator.Validate, publisher events.Publisher, policy ledger.LoanPolicy, maxRetries int, logger zerolog.Logger) LibraryService {
	if publisher == nil {
		publisher = events.Nop()
	}

	return &libraryService{
		loans:      loans,
		students:   students,
		validator:  validate,
		publisher:  publisher,
		policy:     policy.Normalize(),
		maxRetries: maxRetries,
		logger:     logger.With().Str("component", "library_service").Logger(),
		tracer:     otel.Tracer("github.com/noah-isme/student-portal-api/internal/service/library"),
		now:        time.Now,
	}
}

// Overview accrues fines lazily and persists every loan whose fine or status moved.
func (s *libraryService) Overview(ctx context.Context, studentID uint) (dto.LibraryOverviewResponse, error) {
	loans, err := s.loans.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.LibraryOverviewResponse{}, err
	}

	now := s.now()
	changed := false
	for i, loan := range loans {
		accrued := ledger.AccrueFine(loan, now)
		if accrued.Fine == loan.Fine && accrued.Status == loan.Status {
			continue
		}

		refreshed, err := s.persistAccrual(ctx, accrued, now)
		if err != nil {
			return dto.LibraryOverviewResponse{}, err
		}
		loans[i] = refreshed
		changed = true
	}
	if changed {
		publishRecordsChanged(ctx, s.publisher, s.logger, studentID, RecordsLibrary)
	}

	return dto.NewLibraryOverviewResponse(loans), nil
}

// persistAccrual stores an accrued loan, re-reading and re-accruing on conflicts.
func (s *libraryService) persistAccrual(ctx context.Context, accrued models.LibraryLoan, now time.Time) (models.LibraryLoan, error) {
	current := accrued
	err := withVersionRetry(ctx, s.maxRetries, "loan", s.logger, func() error {
		if err := s.loans.Update(ctx, &current); err != nil {
			if !errors.Is(err, repository.ErrVersionConflict) {
				return err
			}
			fresh, getErr := s.loans.GetByID(ctx, current.ID)
			if getErr != nil {
				return getErr
			}
			current = ledger.AccrueFine(fresh, now)
			return err
		}
		return nil
	})
	if err != nil {
		return models.LibraryLoan{}, err
	}
	return current, nil
}

func (s *libraryService) Renew(ctx context.Context, studentID, loanID uint) (dto.LoanResponse, error) {
	attrs := []attribute.KeyValue{
		attribute.Int64("loan.id", int64(loanID)),
		attribute.Int64("loan.student_id", int64(studentID)),
	}
	spanCtx, span := s.tracer.Start(ctx, "library.renew", trace.WithAttributes(attrs...))
	defer span.End()

	var renewed models.LibraryLoan
	err := withVersionRetry(spanCtx, s.maxRetries, "loan", s.logger, func() error {
		loan, err := s.getLoan(spanCtx, loanID)
		if err != nil {
			return err
		}
		if loan.StudentID != studentID {
			return ErrNotOwner
		}

		now := s.now()
		next, err := ledger.RenewLoan(ledger.AccrueFine(loan, now), now, s.policy.ExtensionDays)
		if err != nil {
			return err
		}

		if err := s.loans.Update(spanCtx, &next); err != nil {
			return err
		}
		renewed = next
		return nil
	})
	if err != nil {
		if errors.Is(err, ledger.ErrRenewalNotAllowed) {
			observability.LoanRenewals().WithLabelValues("denied").Inc()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return dto.LoanResponse{}, err
	}

	observability.LoanRenewals().WithLabelValues("renewed").Inc()

	event := LoanRenewed{
		LoanID:       renewed.ID,
		StudentID:    renewed.StudentID,
		BookID:       renewed.Book.BookID,
		DueDate:      renewed.DueDate,
		RenewalCount: renewed.RenewalCount,
	}
	if err := s.publisher.Publish(spanCtx, events.TopicLoanRenewed, event); err != nil {
		s.logger.Warn().Err(err).Uint("loan_id", renewed.ID).Msg("failed to publish renewal event")
	}

	s.logger.Info().Uint("loan_id", renewed.ID).Int("renewal_count", renewed.RenewalCount).Msg("loan renewed")
	return dto.NewLoanResponse(renewed), nil
}

func (s *libraryService) Issue(ctx context.Context, payload dto.LoanIssueRequest) (dto.LoanResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoanResponse{}, err
	}

	if _, err := loadStudent(ctx, s.students, payload.StudentID); err != nil {
		return dto.LoanResponse{}, err
	}

	issueDate := s.now()
	if payload.IssueDate != nil {
		parsed, err := dto.ParseTime(*payload.IssueDate)
		if err != nil {
			return dto.LoanResponse{}, ErrInvalidDate
		}
		issueDate = parsed
	}

	dueDate := issueDate.AddDate(0, 0, s.policy.ExtensionDays)
	if payload.DueDate != nil {
		parsed, err := dto.ParseTime(*payload.DueDate)
		if err != nil || !parsed.After(issueDate) {
			return dto.LoanResponse{}, ErrInvalidDate
		}
		dueDate = parsed
	}

	loan := models.LibraryLoan{
		StudentID: payload.StudentID,
		Book: models.Book{
			BookID:   strings.TrimSpace(payload.BookID),
			Title:    strings.TrimSpace(payload.Title),
			Author:   strings.TrimSpace(payload.Author),
			ISBN:     strings.TrimSpace(payload.ISBN),
			Category: strings.TrimSpace(payload.Category),
		},
		IssueDate:   issueDate,
		DueDate:     dueDate,
		Status:      models.LoanIssued,
		FinePerDay:  s.policy.FinePerDay,
		MaxRenewals: s.policy.MaxRenewals,
	}

	if err := s.loans.Create(ctx, &loan); err != nil {
		return dto.LoanResponse{}, err
	}

	publishRecordsChanged(ctx, s.publisher, s.logger, loan.StudentID, RecordsLibrary)
	s.logger.Info().Uint("loan_id", loan.ID).Str("book_id", loan.Book.BookID).Msg("book issued")
	return dto.NewLoanResponse(loan), nil
}

func (s *libraryService) Return(ctx context.Context, loanID uint, payload dto.LoanCloseRequest) (dto.LoanResponse, error) {
	return s.close(ctx, loanID, payload, "returned", ledger.ReturnLoan)
}

func (s *libraryService) MarkLost(ctx context.Context, loanID uint, payload dto.LoanCloseRequest) (dto.LoanResponse, error) {
	return s.close(ctx, loanID, payload, "marked lost", ledger.MarkLoanLost)
}

func (s *libraryService) close(ctx context.Context, loanID uint, payload dto.LoanCloseRequest, action string, transition func(models.LibraryLoan, time.Time) (models.LibraryLoan, error)) (dto.LoanResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoanResponse{}, err
	}

	var closed models.LibraryLoan
	err := withVersionRetry(ctx, s.maxRetries, "loan", s.logger, func() error {
		loan, err := s.getLoan(ctx, loanID)
		if err != nil {
			return err
		}

		next, err := transition(loan, s.now())
		if err != nil {
			return err
		}
		if remarks := strings.TrimSpace(payload.Remarks); remarks != "" {
			next.Remarks = remarks
		}

		if err := s.loans.Update(ctx, &next); err != nil {
			return err
		}
		closed = next
		return nil
	})
	if err != nil {
		return dto.LoanResponse{}, err
	}

	publishRecordsChanged(ctx, s.publisher, s.logger, closed.StudentID, RecordsLibrary)
	s.logger.Info().Uint("loan_id", closed.ID).Float64("fine", closed.Fine).Msg("loan " + action)
	return dto.NewLoanResponse(closed), nil
}

func (s *libraryService) getLoan(ctx context.Context, id uint) (models.LibraryLoan, error) {
	loan, err := s.loans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.LibraryLoan{}, ErrLoanNotFound
		}
		return models.LibraryLoan{}, err
	}
	return loan, nil
}
