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

// FeeService lists fee accounts and records payments.
type FeeService interface {
	List(ctx context.Context, studentID uint) (dto.FeeListResponse, error)
	BySemester(ctx context.Context, studentID uint, semester int) ([]dto.FeeAccountResponse, error)
	Pay(ctx context.Context, studentID, feeID uint, payload dto.PaymentRequest) (dto.PaymentReceiptResponse, error)
	Create(ctx context.Context, payload dto.FeeAccountCreateRequest) (dto.FeeAccountResponse, error)
}

// PaymentRecorded is published after a payment is stored.
type PaymentRecorded struct {
	FeeID         uint      `json:"fee_id"`
	StudentID     uint      `json:"student_id"`
	Amount        float64   `json:"amount"`
	Method        string    `json:"payment_method"`
	ReceiptNumber string    `json:"receipt_number"`
	Status        string    `json:"status"`
	PendingAmount float64   `json:"pending_amount"`
	PaidAt        time.Time `json:"paid_at"`
}

type feeService struct {
	fees       repository.FeeRepository
	students   repository.StudentRepository
	validator  *validator.Validate
	publisher  events.Publisher
	maxRetries int
	logger     zerolog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewFeeService constructs a FeeService. maxRetries bounds the optimistic
// concurrency retries of a payment.
func NewFeeService(fees repository.FeeRepository, students repository.StudentRepository, validate *validator.Validate, publisher events.Publisher, maxRetries int, logger zerolog.Logger) FeeService {
	if publisher == nil {
		publisher = events.Nop()
	}

	return &feeService{
		fees:       fees,
		students:   students,
		validator:  validate,
		publisher:  publisher,
		maxRetries: maxRetries,
		logger:     logger.With().Str("component", "fee_service").Logger(),
		tracer:     otel.Tracer("github.com/noah-isme/student-portal-api/internal/service/fee"),
		now:        time.Now,
	}
}

func (s *feeService) List(ctx context.Context, studentID uint) (dto.FeeListResponse, error) {
	accounts, err := s.fees.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.FeeListResponse{}, err
	}

	accounts = s.recompute(accounts)
	totals := ledger.SummarizeFees(accounts)

	return dto.FeeListResponse{
		Summary: dto.FeeSummaryResponse{
			TotalAmount:  totals.TotalAmount,
			TotalPaid:    totals.TotalPaid,
			TotalPending: totals.TotalPending,
			Overdue:      totals.Overdue,
		},
		Data: dto.NewFeeAccountResponseSlice(accounts),
	}, nil
}

func (s *feeService) BySemester(ctx context.Context, studentID uint, semester int) ([]dto.FeeAccountResponse, error) {
	accounts, err := s.fees.ListByStudentSemester(ctx, studentID, semester)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ErrFeeNotFound
	}

	return dto.NewFeeAccountResponseSlice(s.recompute(accounts)), nil
}

// recompute refreshes derived fields so an unpaid account past its due date
// reads as Overdue without a write.
func (s *feeService) recompute(accounts []models.FeeAccount) []models.FeeAccount {
	now := s.now()
	for i := range accounts {
		accounts[i] = ledger.RecomputeFee(accounts[i], now)
	}
	return accounts
}

func (s *feeService) Pay(ctx context.Context, studentID, feeID uint, payload dto.PaymentRequest) (dto.PaymentReceiptResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PaymentReceiptResponse{}, err
	}

	attrs := []attribute.KeyValue{
		attribute.Int64("fee.id", int64(feeID)),
		attribute.Int64("fee.student_id", int64(studentID)),
		attribute.String("payment.method", payload.PaymentMethod),
	}
	spanCtx, span := s.tracer.Start(ctx, "fees.pay", trace.WithAttributes(attrs...))
	defer span.End()

	input := ledger.PaymentInput{
		Amount:        payload.Amount,
		Method:        models.PaymentMethod(strings.TrimSpace(payload.PaymentMethod)),
		TransactionID: payload.TransactionID,
		Remarks:       payload.Remarks,
	}

	var (
		updated models.FeeAccount
		payment models.Payment
	)
	err := withVersionRetry(spanCtx, s.maxRetries, "fee", s.logger, func() error {
		account, err := s.fees.GetByID(spanCtx, feeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFeeNotFound
			}
			return err
		}
		if account.StudentID != studentID {
			return ErrNotOwner
		}

		next, err := ledger.ApplyPayment(account, input, s.now())
		if err != nil {
			return err
		}

		last := len(next.Payments) - 1
		payment = next.Payments[last]
		if err := s.fees.RecordPayment(spanCtx, &next, &payment); err != nil {
			return err
		}
		next.Payments[last] = payment
		updated = next
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return dto.PaymentReceiptResponse{}, err
	}

	observability.PaymentsRecorded().WithLabelValues(string(payment.Method)).Inc()
	observability.PaymentAmount().Add(payment.Amount)

	event := PaymentRecorded{
		FeeID:         updated.ID,
		StudentID:     updated.StudentID,
		Amount:        payment.Amount,
		Method:        string(payment.Method),
		ReceiptNumber: payment.ReceiptNumber,
		Status:        string(updated.Status),
		PendingAmount: updated.PendingAmount,
		PaidAt:        payment.PaymentDate,
	}
	if err := s.publisher.Publish(spanCtx, events.TopicPaymentRecorded, event); err != nil {
		s.logger.Warn().Err(err).Uint("fee_id", updated.ID).Msg("failed to publish payment event")
	}

	s.logger.Info().
		Uint("fee_id", updated.ID).
		Str("receipt", payment.ReceiptNumber).
		Float64("amount", payment.Amount).
		Str("status", string(updated.Status)).
		Msg("payment recorded")

	return dto.PaymentReceiptResponse{
		Account: dto.NewFeeAccountResponse(updated),
		Payment: dto.NewPaymentResponse(payment),
	}, nil
}

func (s *feeService) Create(ctx context.Context, payload dto.FeeAccountCreateRequest) (dto.FeeAccountResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FeeAccountResponse{}, err
	}

	dueDate, err := dto.ParseTime(payload.DueDate)
	if err != nil {
		return dto.FeeAccountResponse{}, ErrInvalidDate
	}

	if _, err := loadStudent(ctx, s.students, payload.StudentID); err != nil {
		return dto.FeeAccountResponse{}, err
	}

	breakdown := models.FeeBreakdown{
		TuitionFee:     payload.Breakdown.TuitionFee,
		LabFee:         payload.Breakdown.LabFee,
		LibraryFee:     payload.Breakdown.LibraryFee,
		ExamFee:        payload.Breakdown.ExamFee,
		SportsFee:      payload.Breakdown.SportsFee,
		DevelopmentFee: payload.Breakdown.DevelopmentFee,
		OtherFees:      payload.Breakdown.OtherFees,
	}

	total := breakdown.Sum()
	if payload.TotalAmount != nil {
		total = *payload.TotalAmount
	}

	account := ledger.RecomputeFee(models.FeeAccount{
		StudentID:    payload.StudentID,
		Semester:     payload.Semester,
		AcademicYear: strings.TrimSpace(payload.AcademicYear),
		Breakdown:    breakdown,
		TotalAmount:  total,
		LateFee:      payload.LateFee,
		Discount:     payload.Discount,
		DueDate:      dueDate,
		Payments:     []models.Payment{},
	}, s.now())

	if err := s.fees.Create(ctx, &account); err != nil {
		return dto.FeeAccountResponse{}, err
	}

	publishRecordsChanged(ctx, s.publisher, s.logger, account.StudentID, RecordsFees)
	s.logger.Info().Uint("fee_id", account.ID).Uint("student_id", account.StudentID).Msg("fee account created")
	return dto.NewFeeAccountResponse(account), nil
}
