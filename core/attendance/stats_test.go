package attendance

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func recordsWithRate(present, total int) []Record {
	records := make([]Record, 0, total)
	for i := 0; i < total; i++ {
		status := StatusAbsent
		if i < present {
			status = StatusPresent
		}
		records = append(records, Record{
			StudentID: fmt.Sprintf("s%d", i%3),
			ClassName: fmt.Sprintf("c%d", i%2),
			Status:    status,
		})
	}
	return records
}

func TestComputeStatsCounts(t *testing.T) {
	records := []Record{
		{StudentID: "s1", ClassName: "Math", Status: StatusPresent},
		{StudentID: "s1", ClassName: "Math", Status: StatusAbsent},
		{StudentID: "s2", ClassName: "Math", Status: StatusLate},
		{StudentID: "s2", ClassName: "Physics", Status: StatusExcused},
		{StudentID: "s2", ClassName: "Physics", Status: StatusPresent},
	}
	got := ComputeStats(records, adminDerivation)
	assert.Equal(t, 5, got.TotalRecords)
	assert.Equal(t, 2, got.Present)
	assert.Equal(t, 1, got.Absent)
	assert.Equal(t, 1, got.Late)
	assert.Equal(t, 1, got.Excused)
	assert.Equal(t, 40, got.AttendanceRate)
	assert.Equal(t, 2, got.TotalStudents)
	assert.Equal(t, 2, got.TotalClasses)
}

func TestComputeStatsZeroSafe(t *testing.T) {
	got := ComputeStats(nil, studentDerivation)
	assert.Equal(t, 0, got.TotalRecords)
	assert.Equal(t, 0, got.AttendanceRate)
	assert.Equal(t, studentDerivation.fallbackGPA, got.GPA)
	assert.Equal(t, studentDerivation.minHours, got.StudyHours)
}

func TestComputeStatsGPASteps(t *testing.T) {
	tests := []struct {
		name    string
		d       derivation
		present int
		total   int
		wantGPA float64
	}{
		{name: "student top band", d: studentDerivation, present: 95, total: 100, wantGPA: 4.0},
		{name: "student boundary not above", d: studentDerivation, present: 90, total: 100, wantGPA: 3.5},
		// 19/21 = 90.48%: the reported rate is 90, and the band
		// follows the reported rate, not the raw ratio
		{name: "student band follows rounded rate", d: studentDerivation, present: 19, total: 21, wantGPA: 3.5},
		// 20/22 = 90.91% rounds up to 91
		{name: "student rounds up across the band", d: studentDerivation, present: 20, total: 22, wantGPA: 4.0},
		{name: "student mid band", d: studentDerivation, present: 75, total: 100, wantGPA: 3.0},
		{name: "student floor", d: studentDerivation, present: 10, total: 100, wantGPA: 2.0},
		{name: "teacher top band", d: teacherDerivation, present: 86, total: 100, wantGPA: 3.6},
		{name: "teacher floor", d: teacherDerivation, present: 50, total: 100, wantGPA: 3.0},
		{name: "admin top band", d: adminDerivation, present: 89, total: 100, wantGPA: 3.7},
		{name: "admin floor", d: adminDerivation, present: 60, total: 100, wantGPA: 3.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(recordsWithRate(tt.present, tt.total), tt.d)
			assert.Equal(t, tt.wantGPA, got.GPA)
		})
	}
}

func TestComputeStatsStudyHours(t *testing.T) {
	tests := []struct {
		name    string
		d       derivation
		present int
		total   int
		want    float64
	}{
		{name: "student capped at 20", d: studentDerivation, present: 100, total: 100, want: 20},
		{name: "student mid band", d: studentDerivation, present: 50, total: 100, want: 10},
		{name: "student min applies", d: studentDerivation, present: 1, total: 100, want: 5},
		{name: "student hours follow rounded rate", d: studentDerivation, present: 19, total: 21, want: 18},
		{name: "teacher scales by 4", d: teacherDerivation, present: 60, total: 100, want: 15},
		{name: "admin scales by 4.5", d: adminDerivation, present: 90, total: 100, want: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(recordsWithRate(tt.present, tt.total), tt.d)
			assert.Equal(t, tt.want, got.StudyHours)
		})
	}
}
