package ledger

import (
	"sort"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// SubjectAttendance summarises attendance for a single subject.
type SubjectAttendance struct {
	Subject    string  `json:"subject"`
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Percentage float64 `json:"percentage"`
}

// AttendancePercentage returns the share of Present and Late records, rounded to
// two decimals. An empty slice yields 0.
func AttendancePercentage(records []models.AttendanceRecord) float64 {
	present := 0
	for _, record := range records {
		if record.Status.CountsAsPresent() {
			present++
		}
	}
	return percentageOf(present, len(records))
}

// SummarizeAttendance groups records by subject, ordered by subject name.
func SummarizeAttendance(records []models.AttendanceRecord) []SubjectAttendance {
	bySubject := make(map[string]*SubjectAttendance)
	for _, record := range records {
		summary, ok := bySubject[record.Subject]
		if !ok {
			summary = &SubjectAttendance{Subject: record.Subject}
			bySubject[record.Subject] = summary
		}
		summary.Total++
		if record.Status.CountsAsPresent() {
			summary.Present++
		}
	}

	summaries := make([]SubjectAttendance, 0, len(bySubject))
	for _, summary := range bySubject {
		summary.Absent = summary.Total - summary.Present
		summary.Percentage = percentageOf(summary.Present, summary.Total)
		summaries = append(summaries, *summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Subject < summaries[j].Subject
	})

	return summaries
}

func percentageOf(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}
