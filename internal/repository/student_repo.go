package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// StudentProfileUpdate holds the profile fields a student may change.
type StudentProfileUpdate struct {
	Phone   *string
	Email   *string
	Address map[string]interface{}
}

// StudentRepository provides access to student records.
type StudentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Student, error)
	GetByStudentID(ctx context.Context, studentID string) (models.Student, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	UpdateProfile(ctx context.Context, id uint, update StudentProfileUpdate) (models.Student, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) GetByStudentID(ctx context.Context, studentID string) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&student).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

// EmailTaken reports whether another student already uses the email address.
func (r *studentRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Student{}).
		Where("LOWER(email) = LOWER(?) AND id <> ?", email, excludeID).
		Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) UpdateProfile(ctx context.Context, id uint, update StudentProfileUpdate) (models.Student, error) {
	student, err := r.GetByID(ctx, id)
	if err != nil {
		return models.Student{}, err
	}

	if update.Phone != nil {
		student.Phone = *update.Phone
	}
	if update.Email != nil {
		student.Email = *update.Email
	}
	if update.Address != nil {
		student.Address = update.Address
	}

	if err := r.db.WithContext(ctx).Model(&student).Select("phone", "email", "address", "updated_at").Updates(&student).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	result := r.db.WithContext(ctx).Model(&models.Student{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *studentRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Student{}).Where("id = ?", id).UpdateColumn("last_login", at).Error
}
