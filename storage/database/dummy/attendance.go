package dummydb

import (
	"context"
	"sort"

	"github.com/phoenixdev100/tap/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) query(keep func(attendance.Record) bool) []attendance.Record {
	records := make([]attendance.Record, 0, len(repo.db.table))
	for _, rec := range repo.db.table {
		if keep == nil || keep(*rec) {
			records = append(records, *rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date > records[j].Date })
	return records
}

func (repo *attendanceRepository) CreateRecord(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.table {
		if existing.StudentID == rec.StudentID && existing.ClassName == rec.ClassName && existing.Date == rec.Date {
			return attendance.Record{}, attendance.ErrDuplicate
		}
	}
	repo.db.table[rec.ID] = &rec
	return rec, nil
}

func (repo *attendanceRepository) GetRecordsByStudent(_ context.Context, studentID string) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(func(r attendance.Record) bool { return r.StudentID == studentID }), nil
}

func (repo *attendanceRepository) GetRecordsByMarker(_ context.Context, markerID string) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(func(r attendance.Record) bool { return r.MarkedBy == markerID }), nil
}

func (repo *attendanceRepository) GetAllRecords(_ context.Context) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(nil), nil
}
