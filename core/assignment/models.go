package assignment

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/phoenixdev100/tap/core"
)

// Assignment lifecycle statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusClosed    = "closed"
)

var AllStatuses = []string{StatusDraft, StatusPublished, StatusClosed}

// MaxScore is the grading ceiling for every assignment.
const MaxScore = 100

type Assignment struct {
	ID          string    `json:"id"`
	TeacherID   string    `json:"teacher_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ClassName   string    `json:"class_name"`
	DueDate     time.Time `json:"due_date"` // UTC
	// AssignedTo lists the student IDs the assignment targets. An
	// empty list means open enrollment when the corresponding config
	// flag is on, nobody otherwise.
	AssignedTo []string  `json:"assigned_to"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// IsAssignedTo reports whether the student may submit, given the
// open-enrollment setting.
func (a *Assignment) IsAssignedTo(studentID string, openEnrollment bool) bool {
	if len(a.AssignedTo) == 0 {
		return openEnrollment
	}
	for _, id := range a.AssignedTo {
		if id == studentID {
			return true
		}
	}
	return false
}

// Submission is a student's answer to an assignment, at most one per
// (assignment, student) pair.
type Submission struct {
	AssignmentID string     `json:"assignment_id"`
	StudentID    string     `json:"student_id"`
	Comment      string     `json:"comment"`
	FileName     string     `json:"file_name"`
	FileType     string     `json:"file_type"`
	FileSize     int64      `json:"file_size"`
	FileContent  []byte     `json:"-"`
	SubmittedAt  time.Time  `json:"submitted_at"` // UTC
	Score        *int       `json:"score"`
	Feedback     string     `json:"feedback"`
	GradedBy     string     `json:"graded_by,omitempty"`
	GradedAt     *time.Time `json:"graded_at"` // UTC
}

func (s *Submission) IsGraded() bool { return s.GradedAt != nil }

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	ClassName   string    `json:"class_name" validate:"required,max=100"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	AssignedTo  []string  `json:"assigned_to" validate:"omitempty,dive,uuid4"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.ClassName = core.CleanString(na.ClassName)
	return validate.Struct(na)
}

// UpdateAssignment defines the mutable fields of an Assignment.
// Empty fields keep their current value.
type UpdateAssignment struct {
	Title       string     `json:"title" validate:"omitempty,max=200"`
	Description string     `json:"description" validate:"omitempty,max=5000"`
	ClassName   string     `json:"class_name" validate:"omitempty,max=100"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  []string   `json:"assigned_to" validate:"omitempty,dive,uuid4"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft published closed"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	ua.Title = core.CleanString(ua.Title)
	ua.Description = core.CleanString(ua.Description)
	ua.ClassName = core.CleanString(ua.ClassName)
	ua.Status = core.CleanString(ua.Status, true /* lower */)
	return validate.Struct(ua)
}

// NewSubmission is a student's submit payload. The file is optional.
type NewSubmission struct {
	Comment string `json:"comment" validate:"max=2000"`
	File    *core.FileUpload
}

func (ns *NewSubmission) Validate(validate *validator.Validate, conf *core.Config) error {
	ns.Comment = core.CleanString(ns.Comment)
	if err := validate.Struct(ns); err != nil {
		return err
	}
	if ns.File != nil {
		return ns.File.Validate(conf)
	}
	return nil
}

// Grade is a teacher's score and feedback for a submission.
type Grade struct {
	Score    *int   `json:"score" validate:"required,min=0,max=100"`
	Feedback string `json:"feedback" validate:"max=2000"`
}

func (g *Grade) Validate(validate *validator.Validate) error {
	g.Feedback = core.CleanString(g.Feedback)
	return validate.Struct(g)
}

type Repository interface {
	CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
	GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
	GetAllAssignments(ctx context.Context) ([]Assignment, error)
	GetAssignmentsByTeacher(ctx context.Context, teacherID string) ([]Assignment, error)
	UpdateAssignment(ctx context.Context, a Assignment) (Assignment, error)
	DeleteAssignment(ctx context.Context, id string) error

	UpsertSubmission(ctx context.Context, sub Submission) (Submission, error)
	GetSubmission(ctx context.Context, assignmentID, studentID string) (Submission, error)
	GetSubmissionsByAssignment(ctx context.Context, assignmentID string) ([]Submission, error)
	GetSubmissionsByStudent(ctx context.Context, studentID string) ([]Submission, error)
	GetAllSubmissions(ctx context.Context) ([]Submission, error)
}
