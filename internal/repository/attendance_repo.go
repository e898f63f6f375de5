package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// AttendanceRepository persists attendance rows.
type AttendanceRepository interface {
	ListByStudent(ctx context.Context, studentID uint, subject string) ([]models.AttendanceRecord, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository instantiates a GORM-backed repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// ListByStudent returns the student's records, newest first. An empty subject matches all.
func (r *attendanceRepository) ListByStudent(ctx context.Context, studentID uint, subject string) ([]models.AttendanceRecord, error) {
	query := r.db.WithContext(ctx).Where("student_id = ?", studentID)
	if trimmed := strings.TrimSpace(subject); trimmed != "" {
		query = query.Where("subject = ?", trimmed)
	}

	var records []models.AttendanceRecord
	if err := query.Order("date DESC").Order("period ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *attendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}
