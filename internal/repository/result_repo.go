package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// ResultRepository persists published results with their subject rows.
type ResultRepository interface {
	ListByStudent(ctx context.Context, studentID uint) ([]models.ResultRecord, error)
	ListByStudentSemester(ctx context.Context, studentID uint, semester int) ([]models.ResultRecord, error)
	Create(ctx context.Context, result *models.ResultRecord) error
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository instantiates a GORM-backed repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ResultRecord{}).
		Preload("Subjects", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

func (r *resultRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.ResultRecord, error) {
	var results []models.ResultRecord
	if err := r.baseQuery(ctx).
		Where("student_id = ?", studentID).
		Order("semester DESC").
		Order("published_date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) ListByStudentSemester(ctx context.Context, studentID uint, semester int) ([]models.ResultRecord, error) {
	var results []models.ResultRecord
	if err := r.baseQuery(ctx).
		Where("student_id = ? AND semester = ?", studentID, semester).
		Order("published_date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) Create(ctx context.Context, result *models.ResultRecord) error {
	for i := range result.Subjects {
		result.Subjects[i].Position = i
	}
	return r.db.WithContext(ctx).Create(result).Error
}
