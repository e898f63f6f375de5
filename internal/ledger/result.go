package ledger

import "github.com/noah-isme/student-portal-api/internal/models"

// ResultAggregate holds the derived grade figures of a result.
type ResultAggregate struct {
	SGPA       float64 `json:"sgpa"`
	Percentage float64 `json:"percentage"`
}

// SemesterGPA pairs a semester with its SGPA; a nil SGPA means it was never computed.
type SemesterGPA struct {
	Semester int
	SGPA     *float64
}

// AggregateResult computes the credit-weighted SGPA and the overall percentage.
func AggregateResult(subjects []models.SubjectResult) (ResultAggregate, error) {
	if len(subjects) == 0 {
		return ResultAggregate{}, ErrEmptySubjectList
	}

	var credits, weighted, obtained, total float64
	for _, subject := range subjects {
		credits += subject.Credits
		weighted += subject.GradePoint * subject.Credits
		obtained += subject.MarksObtained
		total += subject.TotalMarks
	}

	if credits <= 0 || total <= 0 {
		return ResultAggregate{}, ErrInvalidSubjectTotals
	}

	return ResultAggregate{
		SGPA:       round2(weighted / credits),
		Percentage: round2(obtained / total * 100),
	}, nil
}

// OverallGPA averages every defined SGPA. It returns 0 when none is defined.
func OverallGPA(semesters []SemesterGPA) float64 {
	var sum float64
	count := 0
	for _, semester := range semesters {
		if semester.SGPA == nil {
			continue
		}
		sum += *semester.SGPA
		count++
	}
	if count == 0 {
		return 0
	}
	return round2(sum / float64(count))
}
