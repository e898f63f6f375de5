package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/events"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/internal/repository"
)

const testPassword = "secret123"

var baseTime = time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Student{},
		&models.AttendanceRecord{},
		&models.FeeAccount{},
		&models.Payment{},
		&models.LibraryLoan{},
		&models.ResultRecord{},
		&models.SubjectResult{},
		&models.Notice{},
		&models.Timetable{},
		&models.TimetablePeriod{},
		&models.Assignment{},
		&models.Submission{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mini, client
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func seedStudent(t *testing.T, db *gorm.DB, studentID, department string, semester int) models.Student {
	t.Helper()

	hash, err := HashPassword(testPassword)
	require.NoError(t, err)

	student := models.Student{
		StudentID:    studentID,
		PasswordHash: hash,
		FirstName:    "Asha",
		LastName:     strings.ToUpper(studentID),
		Email:        strings.ToLower(studentID) + "@campus.test",
		Phone:        "9000000000",
		Department:   department,
		Course:       "B.Tech",
		Semester:     semester,
		RollNumber:   "R-" + studentID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// conflictingFeeRepository applies a competing payment right before the
// wrapped RecordPayment runs, forcing a version conflict on the first attempts.
type conflictingFeeRepository struct {
	repository.FeeRepository
	db        *gorm.DB
	conflicts int
	calls     int
}

func (r *conflictingFeeRepository) RecordPayment(ctx context.Context, account *models.FeeAccount, payment *models.Payment) error {
	r.calls++
	if r.calls <= r.conflicts {
		if err := r.db.Model(&models.FeeAccount{}).
			Where("id = ?", account.ID).
			UpdateColumn("version", gorm.Expr("version + 1")).Error; err != nil {
			return err
		}
	}
	return r.FeeRepository.RecordPayment(ctx, account, payment)
}

type staleLibraryRepository struct {
	repository.LibraryRepository
}

func (staleLibraryRepository) Update(context.Context, *models.LibraryLoan) error {
	return repository.ErrVersionConflict
}

// conflictingLibraryRepository bumps the stored version right before the first
// conflicts Update calls, as a concurrent writer would.
type conflictingLibraryRepository struct {
	repository.LibraryRepository
	db        *gorm.DB
	conflicts int
	calls     int
}

func (r *conflictingLibraryRepository) Update(ctx context.Context, loan *models.LibraryLoan) error {
	r.calls++
	if r.calls <= r.conflicts {
		if err := r.db.Model(&models.LibraryLoan{}).
			Where("id = ?", loan.ID).
			UpdateColumn("version", gorm.Expr("version + 1")).Error; err != nil {
			return err
		}
	}
	return r.LibraryRepository.Update(ctx, loan)
}

func receiveRecordsChanged(t *testing.T, ch <-chan events.Event) RecordsChanged {
	t.Helper()
	select {
	case event := <-ch:
		var payload RecordsChanged
		require.NoError(t, event.Decode(&payload))
		return payload
	case <-time.After(time.Second):
		t.Fatal("no records.changed event published")
		return RecordsChanged{}
	}
}
