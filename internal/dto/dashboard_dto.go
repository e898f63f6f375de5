package dto

import "time"

// DashboardResponse aggregates the headline numbers of every portal area.
type DashboardResponse struct {
	Student     StudentSummary     `json:"student"`
	Attendance  AttendanceTile     `json:"attendance"`
	Fees        FeeSummaryResponse `json:"fees"`
	Library     LibraryTile        `json:"library"`
	Results     ResultsTile        `json:"results"`
	Assignments AssignmentsTile    `json:"assignments"`
	Notices     NoticesTile        `json:"notices"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// AttendanceTile summarises attendance.
type AttendanceTile struct {
	OverallPercentage float64 `json:"overall_percentage"`
}

// LibraryTile summarises open loans.
type LibraryTile struct {
	ActiveBooks int     `json:"active_books"`
	TotalFine   float64 `json:"total_fine"`
}

// ResultsTile summarises results.
type ResultsTile struct {
	CGPA float64 `json:"cgpa"`
}

// AssignmentsTile counts assignments that are not yet due.
type AssignmentsTile struct {
	Upcoming int64 `json:"upcoming"`
}

// NoticesTile counts notices visible to the student.
type NoticesTile struct {
	Active int64 `json:"active"`
}
