package assignment

import (
	"math"
	"time"
)

// upcomingWindow is the look-ahead used for deadline counts.
const upcomingWindow = 7 * 24 * time.Hour

type StudentStats struct {
	TotalAssignments  int     `json:"total_assignments"`
	Completed         int     `json:"completed"`
	Pending           int     `json:"pending"`
	CompletionRate    int     `json:"completion_rate"`
	AverageScore      float64 `json:"average_score"`
	UpcomingDeadlines int     `json:"upcoming_deadlines"`
}

type TeacherStats struct {
	TotalAssignments int     `json:"total_assignments"`
	TotalSubmissions int     `json:"total_submissions"`
	PendingGrading   int     `json:"pending_grading"`
	CompletionRate   int     `json:"completion_rate"`
	AverageScore     float64 `json:"average_score"`
}

type AdminStats struct {
	TotalAssignments int     `json:"total_assignments"`
	TotalSubmissions int     `json:"total_submissions"`
	PendingGrading   int     `json:"pending_grading"`
	CompletionRate   int     `json:"completion_rate"`
	AverageScore     float64 `json:"average_score"`
}

// ComputeStudentStats reduces a student's visible assignments and own
// submissions. assignments must already be scoped to the student.
func ComputeStudentStats(assignments []Assignment, subs []Submission, now time.Time) StudentStats {
	submitted := make(map[string]Submission, len(subs))
	for _, sub := range subs {
		submitted[sub.AssignmentID] = sub
	}

	stats := StudentStats{TotalAssignments: len(assignments)}
	horizon := now.Add(upcomingWindow)
	for _, a := range assignments {
		if _, ok := submitted[a.ID]; ok {
			stats.Completed++
			continue
		}
		stats.Pending++
		if a.DueDate.After(now) && a.DueDate.Before(horizon) {
			stats.UpcomingDeadlines++
		}
	}
	stats.CompletionRate = ratePct(stats.Completed, stats.TotalAssignments)
	stats.AverageScore = averageScore(subs)
	return stats
}

// ComputeTeacherStats reduces a teacher's assignments and the
// submissions made against them.
func ComputeTeacherStats(assignments []Assignment, subs []Submission) TeacherStats {
	stats := TeacherStats{
		TotalAssignments: len(assignments),
		TotalSubmissions: len(subs),
	}
	graded := 0
	for _, sub := range subs {
		if sub.IsGraded() {
			graded++
		} else {
			stats.PendingGrading++
		}
	}
	stats.CompletionRate = ratePct(graded, stats.TotalSubmissions)
	stats.AverageScore = averageScore(subs)
	return stats
}

// ComputeAdminStats is the system-wide variant of the teacher
// reduction.
func ComputeAdminStats(assignments []Assignment, subs []Submission) AdminStats {
	ts := ComputeTeacherStats(assignments, subs)
	return AdminStats{
		TotalAssignments: ts.TotalAssignments,
		TotalSubmissions: ts.TotalSubmissions,
		PendingGrading:   ts.PendingGrading,
		CompletionRate:   ts.CompletionRate,
		AverageScore:     ts.AverageScore,
	}
}

// ratePct is the integer percentage part/total rounded half-up, 0
// when total is 0.
func ratePct(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// averageScore averages graded submissions only, one decimal. 0 when
// none are graded.
func averageScore(subs []Submission) float64 {
	var sum, n int
	for _, sub := range subs {
		if sub.IsGraded() && sub.Score != nil {
			sum += *sub.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}
