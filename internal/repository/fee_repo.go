package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// FeeRepository persists fee accounts and their payments.
type FeeRepository interface {
	ListByStudent(ctx context.Context, studentID uint) ([]models.FeeAccount, error)
	ListByStudentSemester(ctx context.Context, studentID uint, semester int) ([]models.FeeAccount, error)
	GetByID(ctx context.Context, id uint) (models.FeeAccount, error)
	Create(ctx context.Context, account *models.FeeAccount) error
	RecordPayment(ctx context.Context, account *models.FeeAccount, payment *models.Payment) error
}

type feeRepository struct {
	db *gorm.DB
}

// NewFeeRepository instantiates a GORM-backed repository.
func NewFeeRepository(db *gorm.DB) FeeRepository {
	return &feeRepository{db: db}
}

func (r *feeRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.FeeAccount{}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC").Order("id ASC")
		})
}

func (r *feeRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.FeeAccount, error) {
	var accounts []models.FeeAccount
	if err := r.baseQuery(ctx).
		Where("student_id = ?", studentID).
		Order("semester DESC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}

	return accounts, nil
}

func (r *feeRepository) ListByStudentSemester(ctx context.Context, studentID uint, semester int) ([]models.FeeAccount, error) {
	var accounts []models.FeeAccount
	if err := r.baseQuery(ctx).
		Where("student_id = ? AND semester = ?", studentID, semester).
		Order("due_date ASC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}

	return accounts, nil
}

func (r *feeRepository) GetByID(ctx context.Context, id uint) (models.FeeAccount, error) {
	var account models.FeeAccount
	if err := r.baseQuery(ctx).First(&account, id).Error; err != nil {
		return models.FeeAccount{}, err
	}

	return account, nil
}

func (r *feeRepository) Create(ctx context.Context, account *models.FeeAccount) error {
	if account.Version == 0 {
		account.Version = 1
	}
	return r.db.WithContext(ctx).Create(account).Error
}

// RecordPayment stores the payment and the account's new derived fields in one
// transaction, provided the account still has the version it was read with.
// On success account.Version is advanced.
func (r *feeRepository) RecordPayment(ctx context.Context, account *models.FeeAccount, payment *models.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.FeeAccount{}).
			Where("id = ? AND version = ?", account.ID, account.Version).
			Updates(map[string]interface{}{
				"paid_amount":    account.PaidAmount,
				"pending_amount": account.PendingAmount,
				"late_fee":       account.LateFee,
				"discount":       account.Discount,
				"status":         account.Status,
				"version":        account.Version + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrVersionConflict
		}

		payment.FeeAccountID = account.ID
		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		account.Version++
		return nil
	})
}
