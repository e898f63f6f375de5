package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/events"
	"github.com/noah-isme/student-portal-api/internal/ledger"
	"github.com/noah-isme/student-portal-api/internal/repository"
)

// DashboardService produces the aggregated student dashboard.
type DashboardService interface {
	Get(ctx context.Context, studentID uint) (dto.DashboardResponse, bool, error)
	Invalidate(ctx context.Context, studentID uint)
	Watch(ctx context.Context, bus EventBus)
}

// DashboardRepositories groups the read models the dashboard aggregates.
type DashboardRepositories struct {
	Students    repository.StudentRepository
	Attendance  repository.AttendanceRepository
	Fees        repository.FeeRepository
	Library     repository.LibraryRepository
	Results     repository.ResultRepository
	Assignments repository.AssignmentRepository
	Notices     repository.NoticeRepository
}

type dashboardService struct {
	repos  DashboardRepositories
	cache  jsonCache
	logger zerolog.Logger
	now    func() time.Time
}

// NewDashboardService builds the dashboard aggregator.
func NewDashboardService(repos DashboardRepositories, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	componentLogger := logger.With().Str("component", "dashboard_service").Logger()

	return &dashboardService{
		repos:  repos,
		cache:  newJSONCache(cache, "dashboard", ttl, componentLogger),
		logger: componentLogger,
		now:    time.Now,
	}
}

// Get returns the dashboard and whether it was served from cache.
func (s *dashboardService) Get(ctx context.Context, studentID uint) (dto.DashboardResponse, bool, error) {
	key := dashboardCacheKey(studentID)

	var cached dto.DashboardResponse
	if s.cache.get(ctx, key, &cached) {
		return cached, true, nil
	}

	response, err := s.build(ctx, studentID)
	if err != nil {
		return dto.DashboardResponse{}, false, err
	}

	s.cache.set(ctx, key, response)
	return response, false, nil
}

func (s *dashboardService) build(ctx context.Context, studentID uint) (dto.DashboardResponse, error) {
	student, err := loadStudent(ctx, s.repos.Students, studentID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	now := s.now()

	records, err := s.repos.Attendance.ListByStudent(ctx, studentID, "")
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	accounts, err := s.repos.Fees.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	for i := range accounts {
		accounts[i] = ledger.RecomputeFee(accounts[i], now)
	}
	fees := ledger.SummarizeFees(accounts)

	loans, err := s.repos.Library.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	for i := range loans {
		loans[i] = ledger.AccrueFine(loans[i], now)
	}
	library := ledger.SummarizeLoans(loans)

	results, err := s.repos.Results.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	upcoming, err := s.repos.Assignments.CountUpcoming(ctx, student.Department, student.Semester, now)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	notices, err := s.repos.Notices.CountForAudience(ctx, repository.NoticeAudience{
		Department: student.Department,
		Semester:   student.Semester,
		Now:        now,
	})
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	return dto.DashboardResponse{
		Student:    dto.NewStudentSummary(student),
		Attendance: dto.AttendanceTile{OverallPercentage: ledger.AttendancePercentage(records)},
		Fees: dto.FeeSummaryResponse{
			TotalAmount:  fees.TotalAmount,
			TotalPaid:    fees.TotalPaid,
			TotalPending: fees.TotalPending,
			Overdue:      fees.Overdue,
		},
		Library:     dto.LibraryTile{ActiveBooks: library.ActiveBooks, TotalFine: library.TotalFine},
		Results:     dto.ResultsTile{CGPA: cumulativeGPA(results)},
		Assignments: dto.AssignmentsTile{Upcoming: upcoming},
		Notices:     dto.NoticesTile{Active: notices},
		GeneratedAt: now.UTC(),
	}, nil
}

func (s *dashboardService) Invalidate(ctx context.Context, studentID uint) {
	s.cache.invalidate(ctx, dashboardCacheKey(studentID))
}

// RecordsChanged is published after a staff write or a lazy fine accrual that
// moves a figure shown on the student's dashboard.
type RecordsChanged struct {
	StudentID uint   `json:"student_id"`
	Kind      string `json:"kind"`
}

// Kinds reported in RecordsChanged.
const (
	RecordsAttendance = "attendance"
	RecordsFees       = "fees"
	RecordsLibrary    = "library"
	RecordsResults    = "results"
)

func publishRecordsChanged(ctx context.Context, publisher events.Publisher, logger zerolog.Logger, studentID uint, kind string) {
	event := RecordsChanged{StudentID: studentID, Kind: kind}
	if err := publisher.Publish(ctx, events.TopicRecordsChanged, event); err != nil {
		logger.Warn().Err(err).Uint("student_id", studentID).Str("kind", kind).Msg("failed to publish records event")
	}
}

// Watch drops cached dashboards whose figures moved because of a payment,
// a renewal, a new notice or any other records write, until ctx is cancelled.
func (s *dashboardService) Watch(ctx context.Context, bus EventBus) {
	if bus == nil {
		return
	}

	payments, cancelPayments := bus.Subscribe(events.TopicPaymentRecorded)
	renewals, cancelRenewals := bus.Subscribe(events.TopicLoanRenewed)
	notices, cancelNotices := bus.Subscribe(events.TopicNoticePublished)
	records, cancelRecords := bus.Subscribe(events.TopicRecordsChanged)

	go func() {
		defer cancelPayments()
		defer cancelRenewals()
		defer cancelNotices()
		defer cancelRecords()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-payments:
				if !ok {
					return
				}
				var payload PaymentRecorded
				if err := event.Decode(&payload); err == nil {
					s.Invalidate(ctx, payload.StudentID)
				}
			case event, ok := <-renewals:
				if !ok {
					return
				}
				var payload LoanRenewed
				if err := event.Decode(&payload); err == nil {
					s.Invalidate(ctx, payload.StudentID)
				}
			case event, ok := <-records:
				if !ok {
					return
				}
				var payload RecordsChanged
				if err := event.Decode(&payload); err == nil {
					s.Invalidate(ctx, payload.StudentID)
				}
			case _, ok := <-notices:
				if !ok {
					return
				}
				s.cache.invalidate(ctx, "dashboard:student:*")
			}
		}
	}()
}

func dashboardCacheKey(studentID uint) string {
	return fmt.Sprintf("dashboard:student:%d", studentID)
}
