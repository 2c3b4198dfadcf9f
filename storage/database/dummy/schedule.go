package dummydb

import (
	"context"
	"sort"

	"github.com/phoenixdev100/tap/core/schedule"
)

type scheduleRepository struct {
	db *scheduleTable
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *DB) *scheduleRepository {
	return &scheduleRepository{db: db.schedule}
}

func (repo *scheduleRepository) query(keep func(schedule.Entry) bool) []schedule.Entry {
	entries := make([]schedule.Entry, 0, len(repo.db.table))
	for _, entry := range repo.db.table {
		if keep == nil || keep(*entry) {
			entries = append(entries, *entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].StartTime < entries[j].StartTime })
	return entries
}

func (repo *scheduleRepository) CreateEntry(_ context.Context, entry schedule.Entry) (schedule.Entry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[entry.ID] = &entry
	return entry, nil
}

func (repo *scheduleRepository) GetEntryByID(_ context.Context, id string) (schedule.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if entry, ok := repo.db.table[id]; ok {
		return *entry, nil
	}
	return schedule.Entry{}, schedule.ErrNotFound
}

func (repo *scheduleRepository) GetAllEntries(_ context.Context) ([]schedule.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(nil), nil
}

func (repo *scheduleRepository) GetEntriesByOwner(_ context.Context, ownerID string) ([]schedule.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(func(e schedule.Entry) bool { return e.OwnerID == ownerID }), nil
}

func (repo *scheduleRepository) GetEntriesByOwnerAndDay(_ context.Context, ownerID, day string) ([]schedule.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(func(e schedule.Entry) bool {
		return e.OwnerID == ownerID && e.DayOfWeek == day
	}), nil
}

func (repo *scheduleRepository) UpdateEntry(_ context.Context, entry schedule.Entry) (schedule.Entry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[entry.ID]; !ok {
		return schedule.Entry{}, schedule.ErrNotFound
	}
	repo.db.table[entry.ID] = &entry
	return entry, nil
}

func (repo *scheduleRepository) DeleteEntry(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return schedule.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
