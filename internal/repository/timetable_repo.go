package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// TimetableRepository persists weekly timetables.
type TimetableRepository interface {
	GetActive(ctx context.Context, department string, semester int) (models.Timetable, error)
	Upsert(ctx context.Context, timetable *models.Timetable) error
}

type timetableRepository struct {
	db *gorm.DB
}

// NewTimetableRepository instantiates a GORM-backed repository.
func NewTimetableRepository(db *gorm.DB) TimetableRepository {
	return &timetableRepository{db: db}
}

func (r *timetableRepository) GetActive(ctx context.Context, department string, semester int) (models.Timetable, error) {
	var timetable models.Timetable
	if err := r.db.WithContext(ctx).
		Preload("Periods", func(db *gorm.DB) *gorm.DB {
			return db.Order("period_number ASC")
		}).
		Where("department = ? AND semester = ? AND is_active = ?", department, semester, true).
		Order("updated_at DESC").
		First(&timetable).Error; err != nil {
		return models.Timetable{}, err
	}

	return timetable, nil
}

// Upsert replaces the timetable for (department, semester, academic year) and
// makes it the only active one for that department and semester.
func (r *timetableRepository) Upsert(ctx context.Context, timetable *models.Timetable) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Timetable
		err := tx.Where("department = ? AND semester = ? AND academic_year = ?",
			timetable.Department, timetable.Semester, timetable.AcademicYear).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			timetable.ID = 0
		case err != nil:
			return err
		default:
			timetable.ID = existing.ID
			timetable.CreatedAt = existing.CreatedAt
			if err := tx.Where("timetable_id = ?", existing.ID).Delete(&models.TimetablePeriod{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Timetable{}).
			Where("department = ? AND semester = ?", timetable.Department, timetable.Semester).
			Update("is_active", false).Error; err != nil {
			return err
		}

		timetable.IsActive = true
		for i := range timetable.Periods {
			timetable.Periods[i].ID = 0
			timetable.Periods[i].TimetableID = timetable.ID
		}

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(timetable).Error
	})
}
