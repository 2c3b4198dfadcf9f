package attendance

import "math"

type Stats struct {
	TotalRecords   int     `json:"total_records"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	Late           int     `json:"late"`
	Excused        int     `json:"excused"`
	AttendanceRate int     `json:"attendance_rate"`
	GPA            float64 `json:"gpa"`
	StudyHours     float64 `json:"study_hours"`
	TotalStudents  int     `json:"total_students,omitempty"`
	TotalClasses   int     `json:"total_classes,omitempty"`
}

// gpaStep maps an attendance rate strictly above a threshold to a
// GPA estimate.
type gpaStep struct {
	above float64
	gpa   float64
}

// derivation is the per-role table for the GPA and study-hours
// estimates, thresholds kept as data.
type derivation struct {
	steps       []gpaStep
	fallbackGPA float64
	minHours    float64
	hoursDiv    float64
}

var (
	studentDerivation = derivation{
		steps:       []gpaStep{{90, 4.0}, {80, 3.5}, {70, 3.0}, {60, 2.5}},
		fallbackGPA: 2.0,
		minHours:    5,
		hoursDiv:    5,
	}
	teacherDerivation = derivation{
		steps:       []gpaStep{{85, 3.6}, {75, 3.4}, {65, 3.2}},
		fallbackGPA: 3.0,
		minHours:    8,
		hoursDiv:    4,
	}
	adminDerivation = derivation{
		steps:       []gpaStep{{88, 3.7}, {78, 3.5}, {68, 3.3}},
		fallbackGPA: 3.1,
		minHours:    10,
		hoursDiv:    4.5,
	}
)

const maxStudyHours = 20

func (d derivation) gpa(rate float64) float64 {
	for _, step := range d.steps {
		if rate > step.above {
			return step.gpa
		}
	}
	return d.fallbackGPA
}

func (d derivation) studyHours(rate float64) float64 {
	return math.Min(maxStudyHours, math.Max(d.minHours, rate/d.hoursDiv))
}

// ComputeStats reduces an already role-scoped record set. d selects
// the role's estimation table.
func ComputeStats(records []Record, d derivation) Stats {
	stats := Stats{TotalRecords: len(records)}
	students := make(map[string]bool)
	classes := make(map[string]bool)
	for _, rec := range records {
		switch rec.Status {
		case StatusPresent:
			stats.Present++
		case StatusAbsent:
			stats.Absent++
		case StatusLate:
			stats.Late++
		case StatusExcused:
			stats.Excused++
		}
		students[rec.StudentID] = true
		classes[rec.ClassName] = true
	}

	if stats.TotalRecords > 0 {
		stats.AttendanceRate = int(math.Round(float64(stats.Present) / float64(stats.TotalRecords) * 100))
	}
	// estimates derive from the reported (rounded) rate
	rate := float64(stats.AttendanceRate)
	stats.GPA = d.gpa(rate)
	stats.StudyHours = math.Round(d.studyHours(rate)*10) / 10
	stats.TotalStudents = len(students)
	stats.TotalClasses = len(classes)
	return stats
}
