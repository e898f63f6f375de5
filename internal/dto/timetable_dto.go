package dto

import "github.com/noah-isme/student-portal-api/internal/models"

// PeriodRequest is one slot of a timetable day.
type PeriodRequest struct {
	PeriodNumber int    `json:"period_number" validate:"required,min=1,max=12"`
	Subject      string `json:"subject" validate:"required,max=128"`
	SubjectCode  string `json:"subject_code" validate:"omitempty,max=32"`
	Teacher      string `json:"teacher" validate:"required,max=128"`
	StartTime    string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime      string `json:"end_time" validate:"required,datetime=15:04"`
	Room         string `json:"room" validate:"required,max=32"`
	Type         string `json:"type" validate:"omitempty,oneof=Lecture Lab Tutorial Practical"`
}

// DayScheduleRequest lists the periods of one weekday.
type DayScheduleRequest struct {
	Day     string          `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Periods []PeriodRequest `json:"periods" validate:"dive"`
}

// TimetableUpsertRequest replaces the timetable of a department and semester.
type TimetableUpsertRequest struct {
	Department   string               `json:"department" validate:"required,max=128"`
	Semester     int                  `json:"semester" validate:"required,min=1,max=12"`
	AcademicYear string               `json:"academic_year" validate:"required,max=16"`
	Schedule     []DayScheduleRequest `json:"schedule" validate:"dive"`
}

// PeriodResponse is a timetable slot.
type PeriodResponse struct {
	PeriodNumber int    `json:"period_number"`
	Subject      string `json:"subject"`
	SubjectCode  string `json:"subject_code"`
	Teacher      string `json:"teacher"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Room         string `json:"room"`
	Type         string `json:"type"`
}

// DayScheduleResponse lists the periods of one day.
type DayScheduleResponse struct {
	Day     string           `json:"day"`
	Periods []PeriodResponse `json:"periods"`
}

// TimetableResponse is the weekly schedule.
type TimetableResponse struct {
	ID           uint                  `json:"id"`
	Department   string                `json:"department"`
	Semester     int                   `json:"semester"`
	AcademicYear string                `json:"academic_year"`
	Schedule     []DayScheduleResponse `json:"schedule"`
}

// ToTimetablePeriods flattens the request schedule into period rows.
func ToTimetablePeriods(schedule []DayScheduleRequest) []models.TimetablePeriod {
	periods := make([]models.TimetablePeriod, 0)
	for _, day := range schedule {
		for _, period := range day.Periods {
			periodType := period.Type
			if periodType == "" {
				periodType = models.PeriodLecture
			}
			periods = append(periods, models.TimetablePeriod{
				Day:          day.Day,
				PeriodNumber: period.PeriodNumber,
				Subject:      period.Subject,
				SubjectCode:  period.SubjectCode,
				Teacher:      period.Teacher,
				StartTime:    period.StartTime,
				EndTime:      period.EndTime,
				Room:         period.Room,
				Type:         periodType,
			})
		}
	}
	return periods
}

// NewTimetableResponse groups periods by weekday, Monday first.
func NewTimetableResponse(model models.Timetable) TimetableResponse {
	byDay := make(map[string][]PeriodResponse)
	for _, period := range model.Periods {
		byDay[period.Day] = append(byDay[period.Day], NewPeriodResponse(period))
	}

	schedule := make([]DayScheduleResponse, 0, len(byDay))
	order := append(append([]string{}, models.Weekdays[1:]...), models.Weekdays[0])
	for _, day := range order {
		if periods, ok := byDay[day]; ok {
			schedule = append(schedule, DayScheduleResponse{Day: day, Periods: periods})
		}
	}

	return TimetableResponse{
		ID:           model.ID,
		Department:   model.Department,
		Semester:     model.Semester,
		AcademicYear: model.AcademicYear,
		Schedule:     schedule,
	}
}

// NewPeriodResponse converts a model into a DTO.
func NewPeriodResponse(model models.TimetablePeriod) PeriodResponse {
	return PeriodResponse{
		PeriodNumber: model.PeriodNumber,
		Subject:      model.Subject,
		SubjectCode:  model.SubjectCode,
		Teacher:      model.Teacher,
		StartTime:    model.StartTime,
		EndTime:      model.EndTime,
		Room:         model.Room,
		Type:         model.Type,
	}
}

// TodayScheduleResponse lists the periods of the current weekday. Message is
// set when there are no classes.
type TodayScheduleResponse struct {
	Day     string           `json:"day"`
	Periods []PeriodResponse `json:"periods"`
	Message string           `json:"message,omitempty"`
}
