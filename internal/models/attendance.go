package models

import "time"

// AttendanceStatus represents the outcome recorded for a class period.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceLate    AttendanceStatus = "Late"
	AttendanceExcused AttendanceStatus = "Excused"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	default:
		return false
	}
}

// CountsAsPresent reports whether the status contributes to the attendance percentage.
func (s AttendanceStatus) CountsAsPresent() bool {
	return s == AttendancePresent || s == AttendanceLate
}

// AttendanceRecord is a single period of attendance for a student in a subject.
type AttendanceRecord struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	StudentID uint             `gorm:"not null;index:idx_attendance_student_subject_date,priority:1" json:"student_id"`
	Subject   string           `gorm:"size:128;not null;index:idx_attendance_student_subject_date,priority:2" json:"subject"`
	Date      time.Time        `gorm:"not null;index:idx_attendance_student_subject_date,priority:3" json:"date"`
	Status    AttendanceStatus `gorm:"size:16;not null" json:"status"`
	Period    int              `gorm:"not null" json:"period"`
	MarkedBy  string           `gorm:"size:64;not null" json:"marked_by"`
	Remarks   string           `gorm:"type:text" json:"remarks"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
