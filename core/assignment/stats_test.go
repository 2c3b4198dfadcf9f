package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func gradedSub(assignmentID string, score int) Submission {
	now := time.Now().UTC()
	return Submission{
		AssignmentID: assignmentID,
		StudentID:    "s1",
		SubmittedAt:  now,
		Score:        intPtr(score),
		GradedAt:     &now,
	}
}

func TestComputeStudentStats(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	due := func(d time.Duration) time.Time { return now.Add(d) }

	tests := []struct {
		name        string
		assignments []Assignment
		subs        []Submission
		want        StudentStats
	}{
		{
			name: "empty is zero safe",
			want: StudentStats{},
		},
		{
			name: "mixed completion",
			assignments: []Assignment{
				{ID: "a1", DueDate: due(24 * time.Hour)},
				{ID: "a2", DueDate: due(3 * 24 * time.Hour)},
				{ID: "a3", DueDate: due(10 * 24 * time.Hour)},
			},
			subs: []Submission{gradedSub("a1", 80)},
			want: StudentStats{
				TotalAssignments:  3,
				Completed:         1,
				Pending:           2,
				CompletionRate:    33,
				AverageScore:      80,
				UpcomingDeadlines: 1, // a2 only; a3 past the 7 day window
			},
		},
		{
			name: "overdue pending is not upcoming",
			assignments: []Assignment{
				{ID: "a1", DueDate: due(-24 * time.Hour)},
				{ID: "a2", DueDate: due(24 * time.Hour)},
			},
			want: StudentStats{
				TotalAssignments:  2,
				Pending:           2,
				UpcomingDeadlines: 1,
			},
		},
		{
			name: "rounds half up",
			assignments: []Assignment{
				{ID: "a1", DueDate: due(time.Hour)},
				{ID: "a2", DueDate: due(time.Hour)},
				{ID: "a3", DueDate: due(time.Hour)},
				{ID: "a4", DueDate: due(time.Hour)},
				{ID: "a5", DueDate: due(time.Hour)},
				{ID: "a6", DueDate: due(time.Hour)},
			},
			subs: []Submission{gradedSub("a1", 70), gradedSub("a2", 75)},
			want: StudentStats{
				TotalAssignments:  6,
				Completed:         2,
				Pending:           4,
				CompletionRate:    33,
				AverageScore:      72.5,
				UpcomingDeadlines: 4,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStudentStats(tt.assignments, tt.subs, now))
		})
	}
}

func TestComputeTeacherStats(t *testing.T) {
	assignments := []Assignment{{ID: "a1"}, {ID: "a2"}}
	subs := []Submission{
		gradedSub("a1", 90),
		gradedSub("a1", 70),
		{AssignmentID: "a2", StudentID: "s3", SubmittedAt: time.Now()},
	}

	got := ComputeTeacherStats(assignments, subs)
	assert.Equal(t, TeacherStats{
		TotalAssignments: 2,
		TotalSubmissions: 3,
		PendingGrading:   1,
		CompletionRate:   67,
		AverageScore:     80,
	}, got)

	// zero safe
	assert.Equal(t, TeacherStats{}, ComputeTeacherStats(nil, nil))
}
