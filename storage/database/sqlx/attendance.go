package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/phoenixdev100/tap/core"
	"github.com/phoenixdev100/tap/core/attendance"
)

// recordOrdering is the listing order for attendance records, newest
// first.
var recordOrdering = core.DBOrdering{Field: "date"}

type dbAttendanceRecord struct {
	ID        string    `db:"id"`
	StudentID string    `db:"student_id"`
	ClassName string    `db:"class_name"`
	Date      time.Time `db:"date"`
	Status    string    `db:"status"`
	MarkedBy  string    `db:"marked_by"`
	Notes     string    `db:"notes"`
	Semester  string    `db:"semester"`
	CreatedAt null.Time `db:"created_at"`
}

func (r dbAttendanceRecord) unpack() attendance.Record {
	return attendance.Record{
		ID:        r.ID,
		StudentID: r.StudentID,
		ClassName: r.ClassName,
		Date:      r.Date.Format(attendance.DateFormat),
		Status:    r.Status,
		MarkedBy:  r.MarkedBy,
		Notes:     r.Notes,
		Semester:  r.Semester,
		CreatedAt: r.CreatedAt.Time,
	}
}

func packAttendanceRecord(rec attendance.Record) (dbAttendanceRecord, error) {
	date, err := time.Parse(attendance.DateFormat, rec.Date)
	if err != nil {
		return dbAttendanceRecord{}, errors.Wrap(err, "parsing record date")
	}
	return dbAttendanceRecord{
		ID:        rec.ID,
		StudentID: rec.StudentID,
		ClassName: rec.ClassName,
		Date:      date,
		Status:    rec.Status,
		MarkedBy:  rec.MarkedBy,
		Notes:     rec.Notes,
		Semester:  rec.Semester,
		CreatedAt: null.NewTime(rec.CreatedAt.UTC(), !rec.CreatedAt.IsZero()),
	}, nil
}

func unpackAttendanceRecords(rows []dbAttendanceRecord) []attendance.Record {
	records := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.unpack())
	}
	return records
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	row, err := packAttendanceRecord(rec)
	if err != nil {
		return attendance.Record{}, err
	}
	const query = `
INSERT INTO attendance_records (id, student_id, class_name, date, status, marked_by, notes, semester, created_at)
VALUES (:id, :student_id, :class_name, :date, :status, :marked_by, :notes, :semester, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err) {
			return attendance.Record{}, attendance.ErrDuplicate
		}
		return attendance.Record{}, errors.Wrap(err, "inserting attendance record")
	}
	return rec, nil
}

func (repo attendanceRepository) GetRecordsByStudent(ctx context.Context, studentID string) ([]attendance.Record, error) {
	var rows []dbAttendanceRecord
	query := `SELECT * FROM attendance_records WHERE student_id = $1 ORDER BY ` + recordOrdering.String()
	if err := repo.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, errors.Wrap(err, "querying attendance by student")
	}
	return unpackAttendanceRecords(rows), nil
}

func (repo attendanceRepository) GetRecordsByMarker(ctx context.Context, markerID string) ([]attendance.Record, error) {
	var rows []dbAttendanceRecord
	query := `SELECT * FROM attendance_records WHERE marked_by = $1 ORDER BY ` + recordOrdering.String()
	if err := repo.db.SelectContext(ctx, &rows, query, markerID); err != nil {
		return nil, errors.Wrap(err, "querying attendance by marker")
	}
	return unpackAttendanceRecords(rows), nil
}

func (repo attendanceRepository) GetAllRecords(ctx context.Context) ([]attendance.Record, error) {
	var rows []dbAttendanceRecord
	query := `SELECT * FROM attendance_records ORDER BY ` + recordOrdering.String()
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	return unpackAttendanceRecords(rows), nil
}
