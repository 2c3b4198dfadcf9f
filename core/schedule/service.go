package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/phoenixdev100/tap/core"
)

var ErrNotFound = errors.New("schedule entry not found")

type (
	Service interface {
		List(ctx context.Context) ([]Entry, error)
		ListByOwner(ctx context.Context, ownerID string) ([]Entry, error)
		GetByID(ctx context.Context, id string) (Entry, error)
		Create(ctx context.Context, ownerID string, ne NewEntry) (Entry, error)
		Update(ctx context.Context, entry Entry, ue UpdateEntry) (Entry, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) List(ctx context.Context) ([]Entry, error) {
	return svc.repo.GetAllEntries(ctx)
}

func (svc *service) ListByOwner(ctx context.Context, ownerID string) ([]Entry, error) {
	return svc.repo.GetEntriesByOwner(ctx, ownerID)
}

func (svc *service) GetByID(ctx context.Context, id string) (Entry, error) {
	return svc.repo.GetEntryByID(ctx, id)
}

func (svc *service) Create(ctx context.Context, ownerID string, ne NewEntry) (Entry, error) {
	if err := validateTimeRange(ne.StartTime, ne.EndTime); err != nil {
		return Entry{}, err
	}
	if err := svc.checkConflict(ctx, ownerID, ne.DayOfWeek, ne.StartTime, ne.EndTime, ""); err != nil {
		return Entry{}, err
	}

	now := time.Now().UTC()
	entry := Entry{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		ClassName:  ne.ClassName,
		Instructor: ne.Instructor,
		DayOfWeek:  ne.DayOfWeek,
		StartTime:  ne.StartTime,
		EndTime:    ne.EndTime,
		Room:       ne.Room,
		Color:      ne.Color,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateEntry(ctx, entry)
}

func (svc *service) Update(ctx context.Context, entry Entry, ue UpdateEntry) (Entry, error) {
	if ue.ClassName != "" {
		entry.ClassName = ue.ClassName
	}
	if ue.Instructor != "" {
		entry.Instructor = ue.Instructor
	}
	if ue.DayOfWeek != "" {
		entry.DayOfWeek = ue.DayOfWeek
	}
	if ue.StartTime != "" {
		entry.StartTime = ue.StartTime
	}
	if ue.EndTime != "" {
		entry.EndTime = ue.EndTime
	}
	if ue.Room != "" {
		entry.Room = ue.Room
	}
	if ue.Color != "" {
		entry.Color = ue.Color
	}

	if err := validateTimeRange(entry.StartTime, entry.EndTime); err != nil {
		return Entry{}, err
	}
	if err := svc.checkConflict(ctx, entry.OwnerID, entry.DayOfWeek, entry.StartTime, entry.EndTime, entry.ID); err != nil {
		return Entry{}, err
	}

	entry.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateEntry(ctx, entry)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteEntry(ctx, id)
}

// checkConflict rejects a [start, end) slot overlapping any of the
// owner's existing entries on the same day. Entries that merely touch
// at a boundary do not conflict. excludeID skips the entry being
// updated.
func (svc *service) checkConflict(ctx context.Context, ownerID, day, start, end, excludeID string) error {
	existing, err := svc.repo.GetEntriesByOwnerAndDay(ctx, ownerID, day)
	if err != nil {
		return err
	}
	startMin := parseMinutes(start)
	endMin := parseMinutes(end)
	for _, ex := range existing {
		if ex.ID == excludeID {
			continue
		}
		if startMin < parseMinutes(ex.EndTime) && parseMinutes(ex.StartTime) < endMin {
			return core.NewConflictError(fmt.Sprintf(
				"conflicts with %s (%s - %s)", ex.ClassName, ex.StartTime, ex.EndTime))
		}
	}
	return nil
}

func validateTimeRange(start, end string) error {
	if parseMinutes(end) <= parseMinutes(start) {
		return core.NewValidationError(nil, core.FieldError{
			Field: "end_time", Error: "end time must be after start time",
		})
	}
	return nil
}

// parseMinutes converts an already validated HH:MM string to minutes
// since midnight.
func parseMinutes(hhmm string) int {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) < 2 {
		return 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m
}
