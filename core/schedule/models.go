package schedule

import (
	"context"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/phoenixdev100/tap/core"
)

// DefaultColor is applied when a client submits no color or an
// unparseable one.
const DefaultColor = "#3b82f6"

var hexColorRx = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Weekdays accepted for an Entry, lowercased.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Entry is a recurring weekly class slot owned by the teacher who
// created it.
type Entry struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	ClassName  string    `json:"class_name"`
	Instructor string    `json:"instructor"`
	DayOfWeek  string    `json:"day_of_week"`
	StartTime  string    `json:"start_time"` // HH:MM
	EndTime    string    `json:"end_time"`   // HH:MM
	Room       string    `json:"room"`
	Color      string    `json:"color"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// NewEntry contains information needed to create a new Entry.
type NewEntry struct {
	ClassName  string `json:"class_name" validate:"required,max=100"`
	Instructor string `json:"instructor" validate:"required,max=100"`
	DayOfWeek  string `json:"day_of_week" validate:"required,dayofweek"`
	StartTime  string `json:"start_time" validate:"required,timehhmm"`
	EndTime    string `json:"end_time" validate:"required,timehhmm"`
	Room       string `json:"room" validate:"max=50"`
	Color      string `json:"color"`
}

func (ne *NewEntry) Validate(validate *validator.Validate) error {
	ne.ClassName = core.CleanString(ne.ClassName)
	ne.Instructor = core.CleanString(ne.Instructor)
	ne.DayOfWeek = core.CleanString(ne.DayOfWeek, true /* lower */)
	ne.Room = core.CleanString(ne.Room)
	ne.Color = normalizeColor(ne.Color)
	return validate.Struct(ne)
}

// UpdateEntry defines the mutable fields of an Entry. Empty fields
// keep their current value.
type UpdateEntry struct {
	ClassName  string `json:"class_name" validate:"omitempty,max=100"`
	Instructor string `json:"instructor" validate:"omitempty,max=100"`
	DayOfWeek  string `json:"day_of_week" validate:"omitempty,dayofweek"`
	StartTime  string `json:"start_time" validate:"omitempty,timehhmm"`
	EndTime    string `json:"end_time" validate:"omitempty,timehhmm"`
	Room       string `json:"room" validate:"omitempty,max=50"`
	Color      string `json:"color"`
}

func (ue *UpdateEntry) Validate(validate *validator.Validate) error {
	ue.ClassName = core.CleanString(ue.ClassName)
	ue.Instructor = core.CleanString(ue.Instructor)
	ue.DayOfWeek = core.CleanString(ue.DayOfWeek, true /* lower */)
	ue.Room = core.CleanString(ue.Room)
	if ue.Color != "" {
		ue.Color = normalizeColor(ue.Color)
	}
	return validate.Struct(ue)
}

func normalizeColor(color string) string {
	color = core.CleanString(color, true /* lower */)
	if !hexColorRx.MatchString(color) {
		return DefaultColor
	}
	return color
}

type Repository interface {
	CreateEntry(ctx context.Context, entry Entry) (Entry, error)
	GetEntryByID(ctx context.Context, id string) (Entry, error)
	GetAllEntries(ctx context.Context) ([]Entry, error)
	GetEntriesByOwner(ctx context.Context, ownerID string) ([]Entry, error)
	GetEntriesByOwnerAndDay(ctx context.Context, ownerID, day string) ([]Entry, error)
	UpdateEntry(ctx context.Context, entry Entry) (Entry, error)
	DeleteEntry(ctx context.Context, id string) error
}
