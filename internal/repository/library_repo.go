package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// LibraryRepository persists library loans.
type LibraryRepository interface {
	ListByStudent(ctx context.Context, studentID uint) ([]models.LibraryLoan, error)
	GetByID(ctx context.Context, id uint) (models.LibraryLoan, error)
	Create(ctx context.Context, loan *models.LibraryLoan) error
	Update(ctx context.Context, loan *models.LibraryLoan) error
}

type libraryRepository struct {
	db *gorm.DB
}

// NewLibraryRepository instantiates a GORM-backed repository.
func NewLibraryRepository(db *gorm.DB) LibraryRepository {
	return &libraryRepository{db: db}
}

func (r *libraryRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.LibraryLoan, error) {
	var loans []models.LibraryLoan
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("issue_date DESC").
		Find(&loans).Error; err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *libraryRepository) GetByID(ctx context.Context, id uint) (models.LibraryLoan, error) {
	var loan models.LibraryLoan
	if err := r.db.WithContext(ctx).First(&loan, id).Error; err != nil {
		return models.LibraryLoan{}, err
	}

	return loan, nil
}

func (r *libraryRepository) Create(ctx context.Context, loan *models.LibraryLoan) error {
	if loan.Version == 0 {
		loan.Version = 1
	}
	return r.db.WithContext(ctx).Create(loan).Error
}

// Update writes the mutable loan fields if the stored version still matches
// loan.Version, then advances it.
func (r *libraryRepository) Update(ctx context.Context, loan *models.LibraryLoan) error {
	result := r.db.WithContext(ctx).Model(&models.LibraryLoan{}).
		Where("id = ? AND version = ?", loan.ID, loan.Version).
		Updates(map[string]interface{}{
			"due_date":        loan.DueDate,
			"return_date":     loan.ReturnDate,
			"status":          loan.Status,
			"fine":            loan.Fine,
			"renewal_count":   loan.RenewalCount,
			"last_renewed_at": loan.LastRenewedAt,
			"remarks":         loan.Remarks,
			"version":         loan.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}

	loan.Version++
	return nil
}
