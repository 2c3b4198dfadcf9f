package attendance

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/phoenixdev100/tap/core"
)

// Attendance statuses.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusExcused = "excused"
)

var AllStatuses = []string{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

// DateFormat is the wire and storage format for record dates.
const DateFormat = "2006-01-02"

// Record marks one student's attendance in one class on one day.
// (StudentID, ClassName, Date) is unique.
type Record struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	ClassName string    `json:"class_name"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Status    string    `json:"status"`
	MarkedBy  string    `json:"marked_by"`
	Notes     string    `json:"notes,omitempty"`
	Semester  string    `json:"semester"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewRecord contains information needed to mark attendance.
type NewRecord struct {
	StudentID string `json:"student_id" validate:"required,uuid4"`
	ClassName string `json:"class_name" validate:"required,max=100"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"required,attstatus"`
	Notes     string `json:"notes" validate:"max=500"`
	Semester  string `json:"semester" validate:"max=50"`
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	nr.ClassName = core.CleanString(nr.ClassName)
	nr.Status = core.CleanString(nr.Status, true /* lower */)
	nr.Notes = core.CleanString(nr.Notes)
	nr.Semester = core.CleanString(nr.Semester)
	return validate.Struct(nr)
}

type Repository interface {
	CreateRecord(ctx context.Context, rec Record) (Record, error)
	GetRecordsByStudent(ctx context.Context, studentID string) ([]Record, error)
	GetRecordsByMarker(ctx context.Context, markerID string) ([]Record, error)
	GetAllRecords(ctx context.Context) ([]Record, error)
}
