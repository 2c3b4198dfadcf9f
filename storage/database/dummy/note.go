package dummydb

import (
	"context"
	"sort"

	"github.com/phoenixdev100/tap/core/note"
)

type noteRepository struct {
	db *noteTable
}

var _ note.Repository = (*noteRepository)(nil) // interface compliance check

func NewNoteRepository(db *DB) *noteRepository {
	return &noteRepository{db: db.note}
}

// copyNote deep copies mutable state so callers cannot mutate the
// table through returned values.
func copyNote(n note.Note) note.Note {
	cp := n
	cp.Bookmarks = append([]string(nil), n.Bookmarks...)
	cp.Likes = append([]string(nil), n.Likes...)
	cp.Ratings = make(map[string]int, len(n.Ratings))
	for id, score := range n.Ratings {
		cp.Ratings[id] = score
	}
	return cp
}

func (repo *noteRepository) CreateNote(_ context.Context, n note.Note) (note.Note, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if n.Ratings == nil {
		n.Ratings = make(map[string]int)
	}
	repo.db.table[n.ID] = &n
	return copyNote(n), nil
}

func (repo *noteRepository) GetNoteByID(_ context.Context, id string) (note.Note, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if n, ok := repo.db.table[id]; ok {
		return copyNote(*n), nil
	}
	return note.Note{}, note.ErrNotFound
}

func (repo *noteRepository) ListNotes(_ context.Context, f note.Filter) ([]note.Note, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var matched []note.Note
	for _, n := range repo.db.table {
		switch f.Category {
		case note.CategoryMy:
			if n.UploaderID != f.ViewerID {
				continue
			}
		case note.CategoryBookmarked:
			if !n.IsBookmarkedBy(f.ViewerID) {
				continue
			}
		case note.CategoryPopular:
			if n.Downloads < note.PopularThreshold {
				continue
			}
		default:
			if !n.IsPublic && n.UploaderID != f.ViewerID {
				continue
			}
		}
		if !n.Matches(f.Search) {
			continue
		}
		matched = append(matched, copyNote(*n))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	start := (f.Page - 1) * f.PageSize
	if start > total {
		start = total
	}
	end := start + f.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (repo *noteRepository) DeleteNote(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return note.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *noteRepository) IncrementDownloads(_ context.Context, id string) (note.Note, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	n, ok := repo.db.table[id]
	if !ok {
		return note.Note{}, note.ErrNotFound
	}
	n.Downloads++
	return copyNote(*n), nil
}

func (repo *noteRepository) SetBookmark(_ context.Context, noteID, userID string, on bool) (note.Note, error) {
	return repo.setMark(noteID, userID, on, true)
}

func (repo *noteRepository) SetLike(_ context.Context, noteID, userID string, on bool) (note.Note, error) {
	return repo.setMark(noteID, userID, on, false)
}

func (repo *noteRepository) setMark(noteID, userID string, on, bookmark bool) (note.Note, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	n, ok := repo.db.table[noteID]
	if !ok {
		return note.Note{}, note.ErrNotFound
	}
	ids := n.Likes
	if bookmark {
		ids = n.Bookmarks
	}
	out := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		if id != userID {
			out = append(out, id)
		}
	}
	if on {
		out = append(out, userID)
	}
	if bookmark {
		n.Bookmarks = out
	} else {
		n.Likes = out
	}
	return copyNote(*n), nil
}

func (repo *noteRepository) RateNote(_ context.Context, noteID, userID string, score int) (note.Note, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	n, ok := repo.db.table[noteID]
	if !ok {
		return note.Note{}, note.ErrNotFound
	}
	if n.Ratings == nil {
		n.Ratings = make(map[string]int)
	}
	n.Ratings[userID] = score
	return copyNote(*n), nil
}
