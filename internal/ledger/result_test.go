package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/models"
)

func floatPointer(value float64) *float64 {
	return &value
}

func TestAggregateResultWeightsByCredits(t *testing.T) {
	aggregate, err := AggregateResult([]models.SubjectResult{
		{SubjectName: "Data Structures", SubjectCode: "CS201", Credits: 4, GradePoint: 8, MarksObtained: 72, TotalMarks: 100, Grade: "A"},
		{SubjectName: "Discrete Maths", SubjectCode: "MA201", Credits: 3, GradePoint: 9, MarksObtained: 81, TotalMarks: 100, Grade: "A+"},
	})
	require.NoError(t, err)
	require.Equal(t, 8.43, aggregate.SGPA)
	require.Equal(t, 76.5, aggregate.Percentage)
}

func TestAggregateResultEmpty(t *testing.T) {
	_, err := AggregateResult(nil)
	require.ErrorIs(t, err, ErrEmptySubjectList)
}

func TestAggregateResultZeroTotals(t *testing.T) {
	_, err := AggregateResult([]models.SubjectResult{
		{SubjectName: "Seminar", SubjectCode: "SM100", Credits: 0, GradePoint: 10, MarksObtained: 0, TotalMarks: 0},
	})
	require.ErrorIs(t, err, ErrInvalidSubjectTotals)
}

func TestOverallGPASkipsUndefined(t *testing.T) {
	gpa := OverallGPA([]SemesterGPA{
		{Semester: 1, SGPA: floatPointer(8.2)},
		{Semester: 2, SGPA: nil},
		{Semester: 3, SGPA: floatPointer(8.6)},
	})
	require.Equal(t, 8.4, gpa)
}

func TestOverallGPAWithoutResults(t *testing.T) {
	require.Equal(t, 0.0, OverallGPA(nil))
	require.Equal(t, 0.0, OverallGPA([]SemesterGPA{{Semester: 1}}))
}

func TestAggregateResultRoundsHalfUpOnDecimalValue(t *testing.T) {
	aggregate, err := AggregateResult([]models.SubjectResult{
		{SubjectName: "Seminar", SubjectCode: "SM101", Credits: 1, GradePoint: 1.005, MarksObtained: 50, TotalMarks: 100, Grade: "D"},
	})
	require.NoError(t, err)
	require.Equal(t, 1.01, aggregate.SGPA)
	require.Equal(t, float64(50), aggregate.Percentage)
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		1.005:    1.01,
		2.675:    2.68,
		8.428571: 8.43,
		76.5:     76.5,
		-1.005:   -1.01,
	}
	for in, want := range cases {
		require.Equal(t, want, round2(in), "round2(%v)", in)
	}
}
