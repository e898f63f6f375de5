package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/models"
)

func attendanceRows(subject string, statuses ...models.AttendanceStatus) []models.AttendanceRecord {
	base := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	rows := make([]models.AttendanceRecord, 0, len(statuses))
	for i, status := range statuses {
		rows = append(rows, models.AttendanceRecord{
			StudentID: 1,
			Subject:   subject,
			Date:      base.AddDate(0, 0, i),
			Status:    status,
			Period:    1,
		})
	}
	return rows
}

func TestAttendancePercentageEmpty(t *testing.T) {
	require.Equal(t, 0.0, AttendancePercentage(nil))
	require.Equal(t, 0.0, AttendancePercentage([]models.AttendanceRecord{}))
}

func TestAttendancePercentageCountsLateAsPresent(t *testing.T) {
	rows := attendanceRows("Maths", models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLate, models.AttendancePresent)
	require.Equal(t, 75.0, AttendancePercentage(rows))
}

func TestAttendancePercentageExcusedCountsAsAbsent(t *testing.T) {
	rows := attendanceRows("Maths", models.AttendancePresent, models.AttendanceExcused, models.AttendanceAbsent)
	require.Equal(t, 33.33, AttendancePercentage(rows))
}

func TestSummarizeAttendanceGroupsBySubject(t *testing.T) {
	rows := append(
		attendanceRows("Physics", models.AttendancePresent, models.AttendanceAbsent),
		attendanceRows("Chemistry", models.AttendanceLate, models.AttendancePresent, models.AttendancePresent)...,
	)

	summary := SummarizeAttendance(rows)
	require.Len(t, summary, 2)

	require.Equal(t, "Chemistry", summary[0].Subject)
	require.Equal(t, 3, summary[0].Total)
	require.Equal(t, 3, summary[0].Present)
	require.Equal(t, 0, summary[0].Absent)
	require.Equal(t, 100.0, summary[0].Percentage)

	require.Equal(t, "Physics", summary[1].Subject)
	require.Equal(t, 2, summary[1].Total)
	require.Equal(t, 1, summary[1].Present)
	require.Equal(t, 1, summary[1].Absent)
	require.Equal(t, 50.0, summary[1].Percentage)
}
