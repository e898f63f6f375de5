package dto

import (
	"time"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// SubjectResultRequest holds the marks for one subject.
type SubjectResultRequest struct {
	SubjectName   string  `json:"subject_name" validate:"required,max=255"`
	SubjectCode   string  `json:"subject_code" validate:"required,max=32"`
	Credits       float64 `json:"credits" validate:"gte=0"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
	TotalMarks    float64 `json:"total_marks" validate:"gte=0"`
	Grade         string  `json:"grade" validate:"required,max=8"`
	GradePoint    float64 `json:"grade_point" validate:"gte=0,lte=10"`
}

// ResultCreateRequest publishes an exam result.
type ResultCreateRequest struct {
	StudentID     uint                   `json:"student_id" validate:"required"`
	Semester      int                    `json:"semester" validate:"required,min=1,max=12"`
	AcademicYear  string                 `json:"academic_year" validate:"required,max=16"`
	ExamType      string                 `json:"exam_type" validate:"required,oneof=Mid-term End-term Internal Final"`
	Subjects      []SubjectResultRequest `json:"subjects" validate:"dive"`
	Rank          *int                   `json:"rank" validate:"omitempty,min=1"`
	TotalStudents *int                   `json:"total_students" validate:"omitempty,min=1"`
	PublishedDate *string                `json:"published_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Remarks       string                 `json:"remarks" validate:"omitempty,max=500"`
}

// ResultResponse is a published result.
type ResultResponse struct {
	ID            uint                   `json:"id"`
	Semester      int                    `json:"semester"`
	AcademicYear  string                 `json:"academic_year"`
	ExamType      string                 `json:"exam_type"`
	Subjects      []models.SubjectResult `json:"subjects"`
	SGPA          *float64               `json:"sgpa"`
	Percentage    *float64               `json:"percentage"`
	Rank          *int                   `json:"rank"`
	TotalStudents *int                   `json:"total_students"`
	PublishedDate time.Time              `json:"published_date"`
	Remarks       string                 `json:"remarks"`
}

// ResultListResponse lists every result with the overall CGPA.
type ResultListResponse struct {
	CGPA  float64          `json:"cgpa"`
	Count int              `json:"count"`
	Data  []ResultResponse `json:"data"`
}

// ToSubjectResults converts request rows into models.
func ToSubjectResults(items []SubjectResultRequest) []models.SubjectResult {
	subjects := make([]models.SubjectResult, 0, len(items))
	for _, item := range items {
		subjects = append(subjects, models.SubjectResult{
			SubjectName:   item.SubjectName,
			SubjectCode:   item.SubjectCode,
			Credits:       item.Credits,
			MarksObtained: item.MarksObtained,
			TotalMarks:    item.TotalMarks,
			Grade:         item.Grade,
			GradePoint:    item.GradePoint,
		})
	}
	return subjects
}

// NewResultResponse converts a model into a DTO.
func NewResultResponse(model models.ResultRecord) ResultResponse {
	subjects := model.Subjects
	if subjects == nil {
		subjects = []models.SubjectResult{}
	}

	return ResultResponse{
		ID:            model.ID,
		Semester:      model.Semester,
		AcademicYear:  model.AcademicYear,
		ExamType:      model.ExamType,
		Subjects:      subjects,
		SGPA:          model.SGPA,
		Percentage:    model.Percentage,
		Rank:          model.Rank,
		TotalStudents: model.TotalStudents,
		PublishedDate: model.PublishedDate,
		Remarks:       model.Remarks,
	}
}

// NewResultResponseSlice converts a slice of models into DTOs.
func NewResultResponseSlice(results []models.ResultRecord) []ResultResponse {
	responses := make([]ResultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, NewResultResponse(result))
	}
	return responses
}
