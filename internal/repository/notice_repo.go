package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// NoticeAudience narrows notices to those visible to one student.
type NoticeAudience struct {
	Department string
	Semester   int
	Category   string
	Now        time.Time
}

// NoticeRepository exposes persistence helpers for notices.
type NoticeRepository interface {
	ListForAudience(ctx context.Context, audience NoticeAudience) ([]models.Notice, error)
	CountForAudience(ctx context.Context, audience NoticeAudience) (int64, error)
	GetByID(ctx context.Context, id uint) (models.Notice, error)
	IncrementViews(ctx context.Context, id uint) (models.Notice, error)
	Create(ctx context.Context, notice *models.Notice) error
}

type noticeRepository struct {
	db *gorm.DB
}

// NewNoticeRepository constructs the repository implementation.
func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) audienceQuery(ctx context.Context, audience NoticeAudience) *gorm.DB {
	now := audience.Now
	if now.IsZero() {
		now = time.Now()
	}

	query := r.db.WithContext(ctx).Model(&models.Notice{}).
		Where("is_active = ?", true).
		Where("expiry_date IS NULL OR expiry_date > ?", now).
		Where(
			"all_students = ? OR LOWER(departments) LIKE ? OR semesters LIKE ?",
			true,
			strings.ToLower(models.ListToken(audience.Department)),
			models.ListToken(strconv.Itoa(audience.Semester)),
		)

	if category := strings.TrimSpace(audience.Category); category != "" {
		query = query.Where("category = ?", category)
	}

	return query
}

// ListForAudience returns active, unexpired notices targeted at the audience,
// newest first. Priority ordering is applied by the caller.
func (r *noticeRepository) ListForAudience(ctx context.Context, audience NoticeAudience) ([]models.Notice, error) {
	var notices []models.Notice
	if err := r.audienceQuery(ctx, audience).Order("publish_date DESC").Find(&notices).Error; err != nil {
		return nil, err
	}

	return notices, nil
}

func (r *noticeRepository) CountForAudience(ctx context.Context, audience NoticeAudience) (int64, error) {
	var total int64
	if err := r.audienceQuery(ctx, audience).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *noticeRepository) GetByID(ctx context.Context, id uint) (models.Notice, error) {
	var notice models.Notice
	if err := r.db.WithContext(ctx).First(&notice, id).Error; err != nil {
		return models.Notice{}, err
	}

	return notice, nil
}

// IncrementViews bumps the view counter in the database and returns the fresh row.
func (r *noticeRepository) IncrementViews(ctx context.Context, id uint) (models.Notice, error) {
	result := r.db.WithContext(ctx).Model(&models.Notice{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return models.Notice{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Notice{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *noticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	return r.db.WithContext(ctx).Create(notice).Error
}
