package dto

import (
	"time"

	"github.com/noah-isme/student-portal-api/internal/ledger"
	"github.com/noah-isme/student-portal-api/internal/models"
)

// AttendanceCreateRequest records one period of attendance.
type AttendanceCreateRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Subject   string `json:"subject" validate:"required,max=128"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Status    string `json:"status" validate:"required,oneof=Present Absent Late Excused"`
	Period    int    `json:"period" validate:"required,min=1,max=12"`
	MarkedBy  string `json:"marked_by" validate:"required,max=64"`
	Remarks   string `json:"remarks" validate:"omitempty,max=500"`
}

// AttendanceRecordResponse is a single attendance row.
type AttendanceRecordResponse struct {
	ID       uint      `json:"id"`
	Subject  string    `json:"subject"`
	Date     time.Time `json:"date"`
	Status   string    `json:"status"`
	Period   int       `json:"period"`
	MarkedBy string    `json:"marked_by"`
	Remarks  string    `json:"remarks"`
}

// AttendanceOverviewResponse summarises every subject.
type AttendanceOverviewResponse struct {
	Summary           []ledger.SubjectAttendance `json:"summary"`
	OverallPercentage float64                    `json:"overall_percentage"`
	Records           []AttendanceRecordResponse `json:"records"`
}

// SubjectAttendanceResponse lists the records of one subject.
type SubjectAttendanceResponse struct {
	Subject    string                     `json:"subject"`
	Percentage float64                    `json:"percentage"`
	Records    []AttendanceRecordResponse `json:"records"`
}

// NewAttendanceRecordResponse converts a model into a DTO.
func NewAttendanceRecordResponse(model models.AttendanceRecord) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		ID:       model.ID,
		Subject:  model.Subject,
		Date:     model.Date,
		Status:   string(model.Status),
		Period:   model.Period,
		MarkedBy: model.MarkedBy,
		Remarks:  model.Remarks,
	}
}

// NewAttendanceRecordResponseSlice converts a slice of models into DTOs.
func NewAttendanceRecordResponseSlice(records []models.AttendanceRecord) []AttendanceRecordResponse {
	responses := make([]AttendanceRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, NewAttendanceRecordResponse(record))
	}
	return responses
}
