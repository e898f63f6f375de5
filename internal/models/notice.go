package models

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notice categories.
const (
	NoticeGeneral   = "General"
	NoticeAcademic  = "Academic"
	NoticeExam      = "Exam"
	NoticeEvent     = "Event"
	NoticeHoliday   = "Holiday"
	NoticeEmergency = "Emergency"
	NoticeFee       = "Fee"
	NoticePlacement = "Placement"
)

// Notice priorities, lowest first.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
	PriorityUrgent = "Urgent"
)

// PriorityRank orders priorities so that Urgent sorts first when descending.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Notice is a message published to a targeted audience of students.
type Notice struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	Category       string         `gorm:"size:32;not null;index" json:"category"`
	Priority       string         `gorm:"size:16;not null;default:Medium" json:"priority"`
	AllStudents    bool           `gorm:"not null;default:false" json:"all_students"`
	DepartmentsRaw string         `gorm:"column:departments;type:text" json:"-"`
	SemestersRaw   string         `gorm:"column:semesters;type:text" json:"-"`
	CoursesRaw     string         `gorm:"column:courses;type:text" json:"-"`
	Attachments    datatypes.JSON `gorm:"type:json" json:"attachments"`
	PublishedBy    string         `gorm:"size:128;not null" json:"published_by"`
	PublishDate    time.Time      `gorm:"not null;index" json:"publish_date"`
	ExpiryDate     *time.Time     `gorm:"index" json:"expiry_date"`
	IsActive       bool           `gorm:"not null;index" json:"is_active"`
	Views          int            `gorm:"not null;default:0" json:"views"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Departments    []string       `gorm:"-" json:"departments"`
	Semesters      []int          `gorm:"-" json:"semesters"`
	Courses        []string       `gorm:"-" json:"courses"`
}

// IsExpired reports whether the notice expiry date has passed.
func (n Notice) IsExpired(reference time.Time) bool {
	return n.ExpiryDate != nil && reference.After(*n.ExpiryDate)
}

// TargetsStudent reports whether the notice audience includes the student.
func (n Notice) TargetsStudent(department string, semester int) bool {
	if n.AllStudents {
		return true
	}
	for _, d := range n.Departments {
		if strings.EqualFold(d, department) {
			return true
		}
	}
	for _, s := range n.Semesters {
		if s == semester {
			return true
		}
	}
	return false
}

// BeforeSave encodes the audience lists into their pipe-delimited columns.
func (n *Notice) BeforeSave(tx *gorm.DB) error {
	n.DepartmentsRaw = encodeList(n.Departments)
	n.CoursesRaw = encodeList(n.Courses)
	semesters := make([]string, 0, len(n.Semesters))
	for _, s := range n.Semesters {
		semesters = append(semesters, strconv.Itoa(s))
	}
	n.SemestersRaw = encodeList(semesters)
	return nil
}

// AfterFind hydrates the audience lists after retrieval.
func (n *Notice) AfterFind(tx *gorm.DB) error {
	n.Departments = decodeList(n.DepartmentsRaw)
	n.Courses = decodeList(n.CoursesRaw)
	raw := decodeList(n.SemestersRaw)
	n.Semesters = make([]int, 0, len(raw))
	for _, value := range raw {
		if parsed, err := strconv.Atoi(value); err == nil {
			n.Semesters = append(n.Semesters, parsed)
		}
	}
	return nil
}

// ListToken renders a value the way it is stored inside an encoded list column,
// for use in LIKE filters.
func ListToken(value string) string {
	return "%|" + strings.TrimSpace(value) + "|%"
}

func encodeList(values []string) string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		cleaned = append(cleaned, trimmed)
	}
	if len(cleaned) == 0 {
		return ""
	}
	return "|" + strings.Join(cleaned, "|") + "|"
}

func decodeList(raw string) []string {
	raw = strings.Trim(raw, "|")
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, "|")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, trimmed)
	}
	return values
}
