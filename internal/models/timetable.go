package models

import "time"

// Weekdays in the order used by time.Weekday.
var Weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Period types.
const (
	PeriodLecture   = "Lecture"
	PeriodLab       = "Lab"
	PeriodTutorial  = "Tutorial"
	PeriodPractical = "Practical"
)

// Timetable is the weekly schedule of a department for one semester.
type Timetable struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	Department   string            `gorm:"size:128;not null;index:idx_timetable_scope,priority:1" json:"department"`
	Semester     int               `gorm:"not null;index:idx_timetable_scope,priority:2" json:"semester"`
	AcademicYear string            `gorm:"size:16;not null" json:"academic_year"`
	IsActive     bool              `gorm:"not null" json:"is_active"`
	Periods      []TimetablePeriod `gorm:"foreignKey:TimetableID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"periods"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// TimetablePeriod is a single slot in the weekly schedule.
type TimetablePeriod struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	TimetableID  uint   `gorm:"not null;index" json:"-"`
	Day          string `gorm:"size:16;not null" json:"day"`
	PeriodNumber int    `gorm:"not null" json:"period_number"`
	Subject      string `gorm:"size:128;not null" json:"subject"`
	SubjectCode  string `gorm:"size:32" json:"subject_code"`
	Teacher      string `gorm:"size:128;not null" json:"teacher"`
	StartTime    string `gorm:"size:8;not null" json:"start_time"`
	EndTime      string `gorm:"size:8;not null" json:"end_time"`
	Room         string `gorm:"size:32;not null" json:"room"`
	Type         string `gorm:"size:16;not null;default:Lecture" json:"type"`
}
