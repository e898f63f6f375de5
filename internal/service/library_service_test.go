package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/events"
	"github.com/noah-isme/student-portal-api/internal/ledger"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/internal/repository"
)

func seedLoan(t *testing.T, db *gorm.DB, studentID uint, bookID string, due time.Time, renewals int) models.LibraryLoan {
	t.Helper()

	loan := models.LibraryLoan{
		StudentID:    studentID,
		Book:         models.Book{BookID: bookID, Title: "Operating Systems", Author: "Silberschatz"},
		IssueDate:    due.AddDate(0, 0, -14),
		DueDate:      due,
		Status:       models.LoanIssued,
		FinePerDay:   5,
		RenewalCount: renewals,
		MaxRenewals:  2,
	}
	require.NoError(t, repository.NewLibraryRepository(db).Create(context.Background(), &loan))
	return loan
}

func newLibraryFixture(t *testing.T, repo repository.LibraryRepository, db *gorm.DB, publisher events.Publisher, now time.Time) LibraryService {
	t.Helper()

	if repo == nil {
		repo = repository.NewLibraryRepository(db)
	}
	svc := NewLibraryService(repo, repository.NewStudentRepository(db), newValidator(), publisher, ledger.DefaultLoanPolicy(), 3, zerolog.Nop())
	svc.(*libraryService).now = fixedClock(now)
	return svc
}

func TestLibraryServiceOverviewAccruesAndPersistsFines(t *testing.T) {
	db := setupServiceDB(t)
	student := seedStudent(t, db, "CS2024001", "Computer Science", 3)
	overdue := seedLoan(t, db, student.ID, "B-1", baseTime, 0)
	seedLoan(t, db, student.ID, "B-2", baseTime.AddDate(0, 0, 7), 0)

	svc := newLibraryFixture(t, nil, db, nil, baseTime.AddDate(0, 0, 3))
	ctx := context.Background()

	overview, err := svc.Overview(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, overview.Active, 2)
	require.Empty(t, overview.Returned)
	require.Equal(t, 2, overview.Summary.ActiveBooks)
	require.Equal(t, 15.0, overview.Summary.TotalFine)

	stored, err := repository.NewLibraryRepository(db).GetByID(ctx, overdue.ID)
	require.NoError(t, err)
	require.Equal(t, models.LoanOverdue, stored.Status)
	require.Equal(t, 15.0, stored.Fine)
	require.Equal(t, uint(2), stored.Version)

	again, err := svc.Overview(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, overview.Summary, again.Summary)

	stored, err = repository.NewLibraryRepository(db).GetByID(ctx, overdue.ID)
	require.NoError(t, err)
	require.Equal(t, uint(2), stored.Version)
}

func TestLibraryServiceRenew(t *testing.T) {
	db := setupServiceDB(t)
	student := seedStudent(t, db, "CS2024001", "Computer Science", 3)
	other := seedStudent(t, db, "CS2024002", "Computer Science", 3)
	loan := seedLoan(t, db, student.ID, "B-1", baseTime.AddDate(0, 0, 2), 0)
	capped := seedLoan(t, db, student.ID, "B-2", baseTime.AddDate(0, 0, 2), 2)
	late := seedLoan(t, db, student.ID, "B-3", baseTime.AddDate(0, 0, -1), 0)

	bus := events.NewBus(nil, nil, "", zerolog.Nop())
	renewals, cancel := bus.Subscribe(events.TopicLoanRenewed)
	defer cancel()

	svc := newLibraryFixture(t, nil, db, bus, baseTime)
	ctx := context.Background()

	renewed, err := svc.Renew(ctx, student.ID, loan.ID)
	require.NoError(t, err)
	require.Equal(t, 1, renewed.RenewalCount)
	require.True(t, renewed.DueDate.Equal(loan.DueDate.AddDate(0, 0, ledger.DefaultExtensionDays)))
	require.NotNil(t, renewed.LastRenewedAt)
	require.True(t, renewed.CanRenew)

	select {
	case event := <-renewals:
		var payload LoanRenewed
		require.NoError(t, event.Decode(&payload))
		require.Equal(t, loan.ID, payload.LoanID)
		require.Equal(t, 1, payload.RenewalCount)
	case <-time.After(time.Second):
		t.Fatal("expected renewal event")
	}

	_, err = svc.Renew(ctx, student.ID, capped.ID)
	require.ErrorIs(t, err, ledger.ErrRenewalNotAllowed)

	_, err = svc.Renew(ctx, student.ID, late.ID)
	require.ErrorIs(t, err, ledger.ErrRenewalNotAllowed)

	_, err = svc.Renew(ctx, other.ID, loan.ID)
	require.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.Renew(ctx, student.ID, 9999)
	require.ErrorIs(t, err, ErrLoanNotFound)
}

func TestLibraryServiceRenewReportsPersistentConflict(t *testing.T) {
	db := setupServiceDB(t)
	student := seedStudent(t, db, "CS2024001", "Computer Science", 3)
	loan := seedLoan(t, db, student.ID, "B-1", baseTime.AddDate(0, 0, 2), 0)

	svc := newLibraryFixture(t, staleLibraryRepository{repository.NewLibraryRepository(db)}, db, nil, baseTime)

	_, err := svc.Renew(context.Background(), student.ID, loan.ID)
	require.ErrorIs(t, err, repository.ErrVersionConflict)
}

func TestLibraryServiceIssueReturnAndLose(t *testing.T) {
	db := setupServiceDB(t)
	student := seedStudent(t, db, "CS2024001", "Computer Science", 3)

	svc := newLibraryFixture(t, nil, db, nil, baseTime)
	ctx := context.Background()

	issued, err := svc.Issue(ctx, dto.LoanIssueRequest{StudentID: student.ID, BookID: "B-9", Title: "Compilers", Author: "Aho"})
	require.NoError(t, err)
	require.Equal(t, string(models.LoanIssued), issued.Status)
	require.True(t, issued.DueDate.Equal(baseTime.AddDate(0, 0, ledger.DefaultExtensionDays)))
	require.Equal(t, float64(ledger.DefaultFinePerDay), issued.FinePerDay)
	require.Equal(t, ledger.DefaultMaxRenewals, issued.MaxRenewals)

	svc.(*libraryService).now = fixedClock(baseTime.AddDate(0, 0, ledger.DefaultExtensionDays+2))
	returned, err := svc.Return(ctx, issued.ID, dto.LoanCloseRequest{Remarks: "cover torn"})
	require.NoError(t, err)
	require.Equal(t, string(models.LoanReturned), returned.Status)
	require.Equal(t, 10.0, returned.Fine)
	require.NotNil(t, returned.ReturnDate)
	require.Equal(t, "cover torn", returned.Remarks)

	_, err = svc.MarkLost(ctx, issued.ID, dto.LoanCloseRequest{})
	require.ErrorIs(t, err, ledger.ErrLoanClosed)

	second, err := svc.Issue(ctx, dto.LoanIssueRequest{StudentID: student.ID, BookID: "B-10", Title: "Networks", Author: "Tanenbaum"})
	require.NoError(t, err)
	lost, err := svc.MarkLost(ctx, second.ID, dto.LoanCloseRequest{})
	require.NoError(t, err)
	require.Equal(t, string(models.LoanLost), lost.Status)

	svc.(*libraryService).now = fixedClock(baseTime.AddDate(1, 0, 0))
	overview, err := svc.Overview(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, overview.Returned, 1)
	require.Len(t, overview.Lost, 1)
	require.Empty(t, overview.Active)
	require.Equal(t, 10.0, overview.Summary.TotalFine)

	_, err = svc.Issue(ctx, dto.LoanIssueRequest{StudentID: 9999, BookID: "B-11", Title: "T", Author: "A"})
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestLibraryServiceOverviewReaccruesAfterVersionConflict(t *testing.T) {
	db := setupServiceDB(t)
	student := seedStudent(t, db, "CS2024001", "Computer Science", 3)
	overdue := seedLoan(t, db, student.ID, "B-1", baseTime, 0)

	bus := events.NewBus(nil, nil, "", zerolog.Nop())
	changes, cancel := bus.Subscribe(events.TopicRecordsChanged)
	defer cancel()

	repo := &conflictingLibraryRepository{LibraryRepository: repository.NewLibraryRepository(db), db: db, conflicts: 1}
	svc := newLibraryFixture(t, repo, db, bus, baseTime.AddDate(0, 0, 3))
	ctx := context.Background()

	overview, err := svc.Overview(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)
	require.Equal(t, 15.0, overview.Summary.TotalFine)

	stored, err := repository.NewLibraryRepository(db).GetByID(ctx, overdue.ID)
	require.NoError(t, err)
	require.Equal(t, models.LoanOverdue, stored.Status)
	require.Equal(t, 15.0, stored.Fine)
	require.Equal(t, uint(3), stored.Version)

	change := receiveRecordsChanged(t, changes)
	require.Equal(t, student.ID, change.StudentID)
	require.Equal(t, RecordsLibrary, change.Kind)
}

func TestLibraryServiceReturnPublishesRecordsChanged(t *testing.T) {
	db := setupServiceDB(t)
	student := seedStudent(t, db, "CS2024001", "Computer Science", 3)
	loan := seedLoan(t, db, student.ID, "B-9", baseTime, 0)

	bus := events.NewBus(nil, nil, "", zerolog.Nop())
	changes, cancel := bus.Subscribe(events.TopicRecordsChanged)
	defer cancel()

	svc := newLibraryFixture(t, nil, db, bus, baseTime.AddDate(0, 0, 1))
	returned, err := svc.Return(context.Background(), loan.ID, dto.LoanCloseRequest{})
	require.NoError(t, err)
	require.Equal(t, 5.0, returned.Fine)

	change := receiveRecordsChanged(t, changes)
	require.Equal(t, student.ID, change.StudentID)
}
