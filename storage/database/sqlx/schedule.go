package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/phoenixdev100/tap/core/schedule"
)

type dbScheduleEntry struct {
	ID         string    `db:"id"`
	OwnerID    string    `db:"owner_id"`
	ClassName  string    `db:"class_name"`
	Instructor string    `db:"instructor"`
	DayOfWeek  string    `db:"day_of_week"`
	StartTime  string    `db:"start_time"`
	EndTime    string    `db:"end_time"`
	Room       string    `db:"room"`
	Color      string    `db:"color"`
	CreatedAt  null.Time `db:"created_at"`
	UpdatedAt  null.Time `db:"updated_at"`
}

func (e dbScheduleEntry) unpack() schedule.Entry {
	return schedule.Entry{
		ID:         e.ID,
		OwnerID:    e.OwnerID,
		ClassName:  e.ClassName,
		Instructor: e.Instructor,
		DayOfWeek:  e.DayOfWeek,
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
		Room:       e.Room,
		Color:      e.Color,
		CreatedAt:  e.CreatedAt.Time,
		UpdatedAt:  e.UpdatedAt.Time,
	}
}

func packScheduleEntry(entry schedule.Entry) dbScheduleEntry {
	return dbScheduleEntry{
		ID:         entry.ID,
		OwnerID:    entry.OwnerID,
		ClassName:  entry.ClassName,
		Instructor: entry.Instructor,
		DayOfWeek:  entry.DayOfWeek,
		StartTime:  entry.StartTime,
		EndTime:    entry.EndTime,
		Room:       entry.Room,
		Color:      entry.Color,
		CreatedAt:  null.NewTime(entry.CreatedAt.UTC(), !entry.CreatedAt.IsZero()),
		UpdatedAt:  null.NewTime(entry.UpdatedAt.UTC(), !entry.UpdatedAt.IsZero()),
	}
}

func unpackScheduleEntries(rows []dbScheduleEntry) []schedule.Entry {
	entries := make([]schedule.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.unpack())
	}
	return entries
}

type scheduleRepository struct {
	db *sqlx.DB
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *sqlx.DB) *scheduleRepository {
	return &scheduleRepository{db: db}
}

func (repo scheduleRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return schedule.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo scheduleRepository) CreateEntry(ctx context.Context, entry schedule.Entry) (schedule.Entry, error) {
	const query = `
INSERT INTO schedule_entries (id, owner_id, class_name, instructor, day_of_week, start_time, end_time, room, color, created_at, updated_at)
VALUES (:id, :owner_id, :class_name, :instructor, :day_of_week, :start_time, :end_time, :room, :color, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, packScheduleEntry(entry)); err != nil {
		return schedule.Entry{}, errors.Wrap(err, "inserting schedule entry")
	}
	return entry, nil
}

func (repo scheduleRepository) GetEntryByID(ctx context.Context, id string) (schedule.Entry, error) {
	var row dbScheduleEntry
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM schedule_entries WHERE id = $1`, id); err != nil {
		return schedule.Entry{}, repo.trapNoRowsErr(err, "getting schedule entry")
	}
	return row.unpack(), nil
}

func (repo scheduleRepository) GetAllEntries(ctx context.Context) ([]schedule.Entry, error) {
	var rows []dbScheduleEntry
	const query = `SELECT * FROM schedule_entries ORDER BY day_of_week, start_time`
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying schedule entries")
	}
	return unpackScheduleEntries(rows), nil
}

func (repo scheduleRepository) GetEntriesByOwner(ctx context.Context, ownerID string) ([]schedule.Entry, error) {
	var rows []dbScheduleEntry
	const query = `SELECT * FROM schedule_entries WHERE owner_id = $1 ORDER BY day_of_week, start_time`
	if err := repo.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, errors.Wrap(err, "querying schedule entries by owner")
	}
	return unpackScheduleEntries(rows), nil
}

func (repo scheduleRepository) GetEntriesByOwnerAndDay(ctx context.Context, ownerID, day string) ([]schedule.Entry, error) {
	var rows []dbScheduleEntry
	const query = `SELECT * FROM schedule_entries WHERE owner_id = $1 AND day_of_week = $2 ORDER BY start_time`
	if err := repo.db.SelectContext(ctx, &rows, query, ownerID, day); err != nil {
		return nil, errors.Wrap(err, "querying schedule entries by owner and day")
	}
	return unpackScheduleEntries(rows), nil
}

func (repo scheduleRepository) UpdateEntry(ctx context.Context, entry schedule.Entry) (schedule.Entry, error) {
	const query = `
UPDATE schedule_entries
SET class_name = :class_name, instructor = :instructor, day_of_week = :day_of_week,
    start_time = :start_time, end_time = :end_time, room = :room, color = :color, updated_at = :updated_at
WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, packScheduleEntry(entry))
	if err != nil {
		return schedule.Entry{}, errors.Wrap(err, "updating schedule entry")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return schedule.Entry{}, schedule.ErrNotFound
	}
	return entry, nil
}

func (repo scheduleRepository) DeleteEntry(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting schedule entry")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return schedule.ErrNotFound
	}
	return nil
}
