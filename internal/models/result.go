package models

import "time"

// Exam types a result can be published for.
const (
	ExamMidTerm  = "Mid-term"
	ExamEndTerm  = "End-term"
	ExamInternal = "Internal"
	ExamFinal    = "Final"
)

// ResultRecord is a published exam result for one semester.
type ResultRecord struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	StudentID     uint            `gorm:"not null;index" json:"student_id"`
	Semester      int             `gorm:"not null;index" json:"semester"`
	AcademicYear  string          `gorm:"size:16;not null" json:"academic_year"`
	ExamType      string          `gorm:"size:32;not null" json:"exam_type"`
	Subjects      []SubjectResult `gorm:"foreignKey:ResultID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"subjects"`
	SGPA          *float64        `json:"sgpa"`
	Percentage    *float64        `json:"percentage"`
	Rank          *int            `json:"rank"`
	TotalStudents *int            `json:"total_students"`
	PublishedDate time.Time       `gorm:"not null" json:"published_date"`
	Remarks       string          `gorm:"type:text" json:"remarks"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// SubjectResult holds the marks for a single subject.
type SubjectResult struct {
	ID            uint    `gorm:"primaryKey" json:"-"`
	ResultID      uint    `gorm:"not null;index" json:"-"`
	Position      int     `gorm:"not null" json:"-"`
	SubjectName   string  `gorm:"size:255;not null" json:"subject_name"`
	SubjectCode   string  `gorm:"size:32;not null" json:"subject_code"`
	Credits       float64 `gorm:"not null" json:"credits"`
	MarksObtained float64 `gorm:"not null" json:"marks_obtained"`
	TotalMarks    float64 `gorm:"not null" json:"total_marks"`
	Grade         string  `gorm:"size:8;not null" json:"grade"`
	GradePoint    float64 `gorm:"not null" json:"grade_point"`
}
