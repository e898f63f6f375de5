package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// Migrate creates or updates every portal table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
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
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
