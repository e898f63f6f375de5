package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func seedStudent(t *testing.T, db *gorm.DB) models.Student {
	t.Helper()
	student := models.Student{
		StudentID:  "STU001",
		FirstName:  "Asha",
		LastName:   "Rao",
		Email:      "asha@example.edu",
		Phone:      "9000000001",
		Department: "Computer Science",
		Course:     "B.Tech",
		Semester:   3,
		RollNumber: "CS-21-001",
		IsActive:   true,
	}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func TestStudentRepositoryUpdateProfileOnlyTouchesContactFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	student := seedStudent(t, db)

	phone := "9111111111"
	updated, err := repo.UpdateProfile(context.Background(), student.ID, StudentProfileUpdate{
		Phone:   &phone,
		Address: map[string]interface{}{"city": "Pune"},
	})
	require.NoError(t, err)
	require.Equal(t, phone, updated.Phone)

	stored, err := repo.GetByStudentID(context.Background(), "STU001")
	require.NoError(t, err)
	require.Equal(t, phone, stored.Phone)
	require.Equal(t, "asha@example.edu", stored.Email)
	require.Equal(t, "Pune", stored.Address["city"])
	require.Equal(t, "Computer Science", stored.Department)
}

func TestStudentRepositoryUpdatePasswordMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	err := repo.UpdatePassword(context.Background(), 99, "hash")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAttendanceRepositoryFiltersBySubject(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttendanceRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	for i, subject := range []string{"Maths", "Physics", "Maths"} {
		require.NoError(t, repo.Create(ctx, &models.AttendanceRecord{
			StudentID: 1,
			Subject:   subject,
			Date:      base.AddDate(0, 0, i),
			Status:    models.AttendancePresent,
			Period:    1,
			MarkedBy:  "T01",
		}))
	}

	all, err := repo.ListByStudent(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.True(t, all[0].Date.After(all[1].Date))

	maths, err := repo.ListByStudent(ctx, 1, "Maths")
	require.NoError(t, err)
	require.Len(t, maths, 2)
}

func TestFeeRepositoryRecordPaymentDetectsStaleVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFeeRepository(db)
	ctx := context.Background()

	account := models.FeeAccount{
		StudentID:     1,
		Semester:      3,
		AcademicYear:  "2024-25",
		TotalAmount:   1000,
		PendingAmount: 1000,
		DueDate:       time.Now().Add(48 * time.Hour),
		Status:        models.FeeStatusPending,
	}
	require.NoError(t, repo.Create(ctx, &account))
	require.Equal(t, uint(1), account.Version)

	first, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	stale, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)

	first.PaidAmount = 400
	first.PendingAmount = 600
	first.Status = models.FeeStatusPartial
	require.NoError(t, repo.RecordPayment(ctx, &first, &models.Payment{
		Amount:        400,
		Method:        models.PaymentUPI,
		PaymentDate:   time.Now(),
		ReceiptNumber: "REC-1",
	}))
	require.Equal(t, uint(2), first.Version)

	stale.PaidAmount = 100
	err = repo.RecordPayment(ctx, &stale, &models.Payment{
		Amount:        100,
		Method:        models.PaymentCash,
		PaymentDate:   time.Now(),
		ReceiptNumber: "REC-2",
	})
	require.ErrorIs(t, err, ErrVersionConflict)

	stored, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, 400.0, stored.PaidAmount)
	require.Equal(t, models.FeeStatusPartial, stored.Status)
	require.Len(t, stored.Payments, 1)
	require.Equal(t, "REC-1", stored.Payments[0].ReceiptNumber)
}

func TestFeeRepositoryListsNewestSemesterFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFeeRepository(db)
	ctx := context.Background()

	for _, semester := range []int{1, 3, 2} {
		require.NoError(t, repo.Create(ctx, &models.FeeAccount{
			StudentID:    1,
			Semester:     semester,
			AcademicYear: "2024-25",
			TotalAmount:  100,
			DueDate:      time.Now(),
			Status:       models.FeeStatusPending,
		}))
	}

	accounts, err := repo.ListByStudent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	require.Equal(t, 3, accounts[0].Semester)
	require.Equal(t, 1, accounts[2].Semester)

	second, err := repo.ListByStudentSemester(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
}

func TestLibraryRepositoryUpdateIsVersioned(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLibraryRepository(db)
	ctx := context.Background()

	loan := models.LibraryLoan{
		StudentID:   1,
		Book:        models.Book{BookID: "B1", Title: "Compilers", Author: "Aho"},
		IssueDate:   time.Now().Add(-24 * time.Hour),
		DueDate:     time.Now().Add(13 * 24 * time.Hour),
		Status:      models.LoanIssued,
		FinePerDay:  5,
		MaxRenewals: 2,
	}
	require.NoError(t, repo.Create(ctx, &loan))

	stale := loan
	loan.RenewalCount = 1
	require.NoError(t, repo.Update(ctx, &loan))
	require.Equal(t, uint(2), loan.Version)

	stale.Status = models.LoanReturned
	require.ErrorIs(t, repo.Update(ctx, &stale), ErrVersionConflict)

	stored, err := repo.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stored.RenewalCount)
	require.Equal(t, models.LoanIssued, stored.Status)
	require.Equal(t, "Compilers", stored.Book.Title)
}

func TestResultRepositoryKeepsSubjectOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResultRepository(db)
	ctx := context.Background()

	result := models.ResultRecord{
		StudentID:     1,
		Semester:      2,
		AcademicYear:  "2023-24",
		ExamType:      models.ExamEndTerm,
		PublishedDate: time.Now(),
		Subjects: []models.SubjectResult{
			{SubjectName: "Zoology", SubjectCode: "Z1", Credits: 3, MarksObtained: 60, TotalMarks: 100, Grade: "B", GradePoint: 7},
			{SubjectName: "Algebra", SubjectCode: "A1", Credits: 4, MarksObtained: 80, TotalMarks: 100, Grade: "A", GradePoint: 9},
		},
	}
	require.NoError(t, repo.Create(ctx, &result))
	require.NoError(t, repo.Create(ctx, &models.ResultRecord{
		StudentID: 1, Semester: 1, AcademicYear: "2023-24", ExamType: models.ExamEndTerm, PublishedDate: time.Now(),
	}))

	results, err := repo.ListByStudent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, 2, results[0].Semester)
	require.Equal(t, "Zoology", results[0].Subjects[0].SubjectName)
	require.Equal(t, "Algebra", results[0].Subjects[1].SubjectName)
}

func TestNoticeRepositoryFiltersAudience(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoticeRepository(db)
	ctx := context.Background()
	now := time.Now()
	past := now.Add(-time.Hour)

	fixtures := []models.Notice{
		{Title: "Campus closed", Content: "x", Category: models.NoticeHoliday, Priority: models.PriorityLow, AllStudents: true, PublishedBy: "admin", PublishDate: now.Add(-3 * time.Hour), IsActive: true},
		{Title: "CS lab", Content: "x", Category: models.NoticeAcademic, Priority: models.PriorityHigh, Departments: []string{"Computer Science"}, PublishedBy: "admin", PublishDate: now.Add(-2 * time.Hour), IsActive: true},
		{Title: "Sem 3 exam", Content: "x", Category: models.NoticeExam, Priority: models.PriorityUrgent, Semesters: []int{3}, PublishedBy: "admin", PublishDate: now.Add(-time.Hour), IsActive: true},
		{Title: "Sem 13 trip", Content: "x", Category: models.NoticeEvent, Priority: models.PriorityMedium, Semesters: []int{13}, PublishedBy: "admin", PublishDate: now, IsActive: true},
		{Title: "Expired", Content: "x", Category: models.NoticeGeneral, Priority: models.PriorityLow, AllStudents: true, PublishedBy: "admin", PublishDate: now, ExpiryDate: &past, IsActive: true},
		{Title: "Mechanical", Content: "x", Category: models.NoticeGeneral, Priority: models.PriorityLow, Departments: []string{"Mechanical"}, PublishedBy: "admin", PublishDate: now, IsActive: true},
	}
	for i := range fixtures {
		require.NoError(t, repo.Create(ctx, &fixtures[i]))
	}

	audience := NoticeAudience{Department: "computer science", Semester: 3, Now: now}
	notices, err := repo.ListForAudience(ctx, audience)
	require.NoError(t, err)

	titles := make([]string, 0, len(notices))
	for _, notice := range notices {
		titles = append(titles, notice.Title)
	}
	require.Equal(t, []string{"Sem 3 exam", "CS lab", "Campus closed"}, titles)
	require.Equal(t, []int{3}, notices[0].Semesters)
	require.Equal(t, []string{"Computer Science"}, notices[1].Departments)

	total, err := repo.CountForAudience(ctx, audience)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)

	audience.Category = models.NoticeExam
	exams, err := repo.ListForAudience(ctx, audience)
	require.NoError(t, err)
	require.Len(t, exams, 1)
}

func TestNoticeRepositoryIncrementViews(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoticeRepository(db)
	ctx := context.Background()

	notice := models.Notice{Title: "Fees due", Content: "x", Category: models.NoticeFee, Priority: models.PriorityHigh, AllStudents: true, PublishedBy: "admin", PublishDate: time.Now(), IsActive: true}
	require.NoError(t, repo.Create(ctx, &notice))

	for i := 0; i < 3; i++ {
		_, err := repo.IncrementViews(ctx, notice.ID)
		require.NoError(t, err)
	}

	stored, err := repo.GetByID(ctx, notice.ID)
	require.NoError(t, err)
	require.Equal(t, 3, stored.Views)

	_, err = repo.IncrementViews(ctx, 999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTimetableRepositoryUpsertReplacesPeriods(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTimetableRepository(db)
	ctx := context.Background()

	first := models.Timetable{
		Department:   "Computer Science",
		Semester:     3,
		AcademicYear: "2023-24",
		Periods: []models.TimetablePeriod{
			{Day: "Monday", PeriodNumber: 1, Subject: "DSA", Teacher: "T1", StartTime: "09:00", EndTime: "10:00", Room: "101", Type: models.PeriodLecture},
		},
	}
	require.NoError(t, repo.Upsert(ctx, &first))

	replacement := models.Timetable{
		Department:   "Computer Science",
		Semester:     3,
		AcademicYear: "2023-24",
		Periods: []models.TimetablePeriod{
			{Day: "Tuesday", PeriodNumber: 2, Subject: "OS", Teacher: "T2", StartTime: "10:00", EndTime: "11:00", Room: "102", Type: models.PeriodLecture},
			{Day: "Tuesday", PeriodNumber: 1, Subject: "DBMS", Teacher: "T3", StartTime: "09:00", EndTime: "10:00", Room: "103", Type: models.PeriodLab},
		},
	}
	require.NoError(t, repo.Upsert(ctx, &replacement))
	require.Equal(t, first.ID, replacement.ID)

	active, err := repo.GetActive(ctx, "Computer Science", 3)
	require.NoError(t, err)
	require.Len(t, active.Periods, 2)
	require.Equal(t, "DBMS", active.Periods[0].Subject)

	next := models.Timetable{Department: "Computer Science", Semester: 3, AcademicYear: "2024-25"}
	require.NoError(t, repo.Upsert(ctx, &next))

	active, err = repo.GetActive(ctx, "Computer Science", 3)
	require.NoError(t, err)
	require.Equal(t, "2024-25", active.AcademicYear)

	var activeCount int64
	require.NoError(t, db.Model(&models.Timetable{}).Where("is_active = ?", true).Count(&activeCount).Error)
	require.Equal(t, int64(1), activeCount)
}

func TestAssignmentAndSubmissionRepositories(t *testing.T) {
	db := setupTestDB(t)
	assignments := NewAssignmentRepository(db)
	submissions := NewSubmissionRepository(db)
	ctx := context.Background()
	now := time.Now()

	past := models.Assignment{Title: "Lab 1", Description: "x", Subject: "DSA", Department: "CS", Semester: 3, DueDate: now.Add(-24 * time.Hour), TotalMarks: 10, CreatedBy: "T1"}
	future := models.Assignment{Title: "Lab 2", Description: "x", Subject: "DSA", Department: "CS", Semester: 3, DueDate: now.Add(24 * time.Hour), TotalMarks: 10, CreatedBy: "T1"}
	other := models.Assignment{Title: "Other", Description: "x", Subject: "ME", Department: "ME", Semester: 3, DueDate: now.Add(24 * time.Hour), TotalMarks: 10, CreatedBy: "T1"}
	for _, item := range []*models.Assignment{&future, &past, &other} {
		require.NoError(t, assignments.Create(ctx, item))
	}

	cohort, err := assignments.ListForCohort(ctx, "CS", 3)
	require.NoError(t, err)
	require.Len(t, cohort, 2)
	require.Equal(t, "Lab 1", cohort[0].Title)

	upcoming, err := assignments.CountUpcoming(ctx, "CS", 3, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), upcoming)

	require.NoError(t, submissions.Create(ctx, &models.Submission{AssignmentID: past.ID, StudentID: 1, SubmittedAt: now, Status: models.SubmissionLate}))
	err = submissions.Create(ctx, &models.Submission{AssignmentID: past.ID, StudentID: 1, SubmittedAt: now, Status: models.SubmissionLate})
	require.ErrorIs(t, err, ErrDuplicateSubmission)

	byAssignment, err := submissions.ForStudent(ctx, 1, []uint{past.ID, future.ID})
	require.NoError(t, err)
	require.Len(t, byAssignment, 1)
	require.Equal(t, models.SubmissionLate, byAssignment[past.ID].Status)

	empty, err := submissions.ForStudent(ctx, 1, nil)
	require.NoError(t, err)
	require.Empty(t, empty)

	_, err = submissions.Find(ctx, future.ID, 1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAssignmentSearchAndCascadeDelete(t *testing.T) {
	db := setupTestDB(t)
	assignments := NewAssignmentRepository(db)
	submissions := NewSubmissionRepository(db)
	ctx := context.Background()
	now := time.Now()

	items := []*models.Assignment{
		{Title: "Graph Traversal", Description: "bfs", Subject: "DSA", Department: "CS", Semester: 3, DueDate: now.Add(72 * time.Hour), TotalMarks: 20, CreatedBy: "teacher:2"},
		{Title: "Sorting", Description: "merge sort", Subject: "DSA", Department: "CS", Semester: 3, DueDate: now.Add(24 * time.Hour), TotalMarks: 20, CreatedBy: "teacher:2"},
		{Title: "Normal Forms", Description: "3NF", Subject: "DBMS", Department: "CS", Semester: 3, DueDate: now.Add(48 * time.Hour), TotalMarks: 20, CreatedBy: "teacher:4"},
	}
	for _, item := range items {
		require.NoError(t, assignments.Create(ctx, item))
	}

	found, total, err := assignments.Search(ctx, AssignmentQuery{Subject: "DSA", Sort: "-title"})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Equal(t, "Sorting", found[0].Title)

	found, total, err = assignments.Search(ctx, AssignmentQuery{Search: "SORT", Sort: "due_date; DROP TABLE assignments", PageSize: 5})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, found, 1)

	paged, total, err := assignments.Search(ctx, AssignmentQuery{Department: "CS", Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, paged, 1)
	require.Equal(t, "Graph Traversal", paged[0].Title)

	require.NoError(t, submissions.Create(ctx, &models.Submission{AssignmentID: items[0].ID, StudentID: 8, SubmittedAt: now, Status: models.SubmissionSubmitted}))
	require.NoError(t, assignments.Delete(ctx, items[0].ID))

	_, err = submissions.Find(ctx, items[0].ID, 8)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.ErrorIs(t, assignments.Delete(ctx, items[0].ID), gorm.ErrRecordNotFound)
}
