package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// AssignmentQuery narrows the staff listing of assignments.
type AssignmentQuery struct {
	Department string
	Semester   int
	Subject    string
	Search     string
	Sort       string
	Page       int
	PageSize   int
}

// AssignmentRepository persists coursework published to a department cohort.
type AssignmentRepository interface {
	ListForCohort(ctx context.Context, department string, semester int) ([]models.Assignment, error)
	CountUpcoming(ctx context.Context, department string, semester int, now time.Time) (int64, error)
	Search(ctx context.Context, query AssignmentQuery) ([]models.Assignment, int64, error)
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id uint) error
}

var assignmentSortColumns = map[string]string{
	"due_date":   "due_date",
	"title":      "title",
	"subject":    "subject",
	"created_at": "created_at",
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) cohort(ctx context.Context, department string, semester int) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("department = ? AND semester = ?", department, semester)
}

// ListForCohort returns the cohort's assignments, earliest due first.
func (r *assignmentRepository) ListForCohort(ctx context.Context, department string, semester int) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.cohort(ctx, department, semester).Order("due_date ASC").Order("id ASC").Find(&assignments).Error
	return assignments, err
}

// CountUpcoming counts assignments of the cohort that are not yet due.
func (r *assignmentRepository) CountUpcoming(ctx context.Context, department string, semester int, now time.Time) (int64, error) {
	var total int64
	err := r.cohort(ctx, department, semester).Where("due_date > ?", now).Count(&total).Error
	return total, err
}

func (r *assignmentRepository) Search(ctx context.Context, q AssignmentQuery) ([]models.Assignment, int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.Assignment{})
	if department := strings.TrimSpace(q.Department); department != "" {
		tx = tx.Where("department = ?", department)
	}
	if q.Semester > 0 {
		tx = tx.Where("semester = ?", q.Semester)
	}
	if subject := strings.TrimSpace(q.Subject); subject != "" {
		tx = tx.Where("subject = ?", subject)
	}
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		pattern := "%" + term + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tx = tx.Order(assignmentOrder(q.Sort))
	if q.PageSize > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		tx = tx.Offset((page - 1) * q.PageSize).Limit(q.PageSize)
	}

	var assignments []models.Assignment
	if err := tx.Find(&assignments).Error; err != nil {
		return nil, 0, err
	}
	return assignments, total, nil
}

// assignmentOrder turns "field" or "-field" into an ORDER BY clause restricted
// to known columns; anything else falls back to due date.
func assignmentOrder(sort string) string {
	sort = strings.ToLower(strings.TrimSpace(sort))
	direction := "ASC"
	if strings.HasPrefix(sort, "-") {
		direction = "DESC"
		sort = sort[1:]
	}
	column, ok := assignmentSortColumns[sort]
	if !ok {
		return "due_date ASC"
	}
	return column + " " + direction
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.WithContext(ctx).Take(&assignment, id).Error
	return assignment, err
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

// Delete removes the assignment together with every submission made for it.
func (r *assignmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Assignment{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
