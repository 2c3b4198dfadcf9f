package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/strmangle"

	"github.com/phoenixdev100/tap/core/note"
)

type dbNote struct {
	ID          string         `db:"id"`
	UploaderID  string         `db:"uploader_id"`
	Title       string         `db:"title"`
	Subject     string         `db:"subject"`
	Description string         `db:"description"`
	Tags        pq.StringArray `db:"tags"`
	FileName    string         `db:"file_name"`
	FileType    string         `db:"file_type"`
	FileSize    int64          `db:"file_size"`
	FileContent []byte         `db:"file_content"`
	IsPublic    bool           `db:"is_public"`
	Downloads   int            `db:"downloads"`
	Bookmarks   pq.StringArray `db:"bookmarks"`
	Likes       pq.StringArray `db:"likes"`
	CreatedAt   null.Time      `db:"created_at"`
	UpdatedAt   null.Time      `db:"updated_at"`
}

func (n dbNote) unpack() note.Note {
	return note.Note{
		ID:          n.ID,
		UploaderID:  n.UploaderID,
		Title:       n.Title,
		Subject:     n.Subject,
		Description: n.Description,
		Tags:        n.Tags,
		FileName:    n.FileName,
		FileType:    n.FileType,
		FileSize:    n.FileSize,
		FileContent: n.FileContent,
		IsPublic:    n.IsPublic,
		Downloads:   n.Downloads,
		Bookmarks:   n.Bookmarks,
		Likes:       n.Likes,
		Ratings:     make(map[string]int),
		CreatedAt:   n.CreatedAt.Time,
		UpdatedAt:   n.UpdatedAt.Time,
	}
}

func packNote(n note.Note) dbNote {
	emptyIfNil := func(ids []string) pq.StringArray {
		if ids == nil {
			return pq.StringArray{}
		}
		return ids
	}
	return dbNote{
		ID:          n.ID,
		UploaderID:  n.UploaderID,
		Title:       n.Title,
		Subject:     n.Subject,
		Description: n.Description,
		Tags:        emptyIfNil(n.Tags),
		FileName:    n.FileName,
		FileType:    n.FileType,
		FileSize:    n.FileSize,
		FileContent: n.FileContent,
		IsPublic:    n.IsPublic,
		Downloads:   n.Downloads,
		Bookmarks:   emptyIfNil(n.Bookmarks),
		Likes:       emptyIfNil(n.Likes),
		CreatedAt:   null.NewTime(n.CreatedAt.UTC(), !n.CreatedAt.IsZero()),
		UpdatedAt:   null.NewTime(n.UpdatedAt.UTC(), !n.UpdatedAt.IsZero()),
	}
}

type dbNoteRating struct {
	NoteID string `db:"note_id"`
	UserID string `db:"user_id"`
	Score  int    `db:"score"`
}

type noteRepository struct {
	db *sqlx.DB
}

var _ note.Repository = (*noteRepository)(nil) // interface compliance check

func NewNoteRepository(db *sqlx.DB) *noteRepository {
	return &noteRepository{db: db}
}

func (repo noteRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return note.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// loadRatings attaches note_ratings rows to the given notes.
func (repo noteRepository) loadRatings(ctx context.Context, notes []note.Note) error {
	if len(notes) == 0 {
		return nil
	}
	ids := make([]interface{}, 0, len(notes))
	byID := make(map[string]*note.Note, len(notes))
	for i := range notes {
		ids = append(ids, notes[i].ID)
		byID[notes[i].ID] = &notes[i]
	}

	query := `SELECT * FROM note_ratings WHERE note_id IN (` + strmangle.Placeholders(true, len(ids), 1, 1) + `)`
	var rows []dbNoteRating
	if err := repo.db.SelectContext(ctx, &rows, query, ids...); err != nil {
		return errors.Wrap(err, "querying note ratings")
	}
	for _, row := range rows {
		if n, ok := byID[row.NoteID]; ok {
			n.Ratings[row.UserID] = row.Score
		}
	}
	return nil
}

func (repo noteRepository) getNote(ctx context.Context, id string) (note.Note, error) {
	var row dbNote
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM notes WHERE id = $1`, id); err != nil {
		return note.Note{}, repo.trapNoRowsErr(err, "getting note")
	}
	notes := []note.Note{row.unpack()}
	if err := repo.loadRatings(ctx, notes); err != nil {
		return note.Note{}, err
	}
	return notes[0], nil
}

func (repo noteRepository) CreateNote(ctx context.Context, n note.Note) (note.Note, error) {
	const query = `
INSERT INTO notes (id, uploader_id, title, subject, description, tags, file_name, file_type, file_size, file_content, is_public, downloads, bookmarks, likes, created_at, updated_at)
VALUES (:id, :uploader_id, :title, :subject, :description, :tags, :file_name, :file_type, :file_size, :file_content, :is_public, :downloads, :bookmarks, :likes, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, packNote(n)); err != nil {
		return note.Note{}, errors.Wrap(err, "inserting note")
	}
	if n.Ratings == nil {
		n.Ratings = make(map[string]int)
	}
	return n, nil
}

func (repo noteRepository) GetNoteByID(ctx context.Context, id string) (note.Note, error) {
	return repo.getNote(ctx, id)
}

func (repo noteRepository) ListNotes(ctx context.Context, f note.Filter) ([]note.Note, int, error) {
	where := make([]string, 0, 2)
	args := make([]interface{}, 0, 4)
	arg := func(val interface{}) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	switch f.Category {
	case note.CategoryMy:
		where = append(where, "uploader_id = "+arg(f.ViewerID))
	case note.CategoryBookmarked:
		where = append(where, arg(f.ViewerID)+" = ANY(bookmarks)")
	case note.CategoryPopular:
		where = append(where, "downloads >= "+arg(note.PopularThreshold))
	default:
		where = append(where, "(is_public OR uploader_id = "+arg(f.ViewerID)+")")
	}
	if f.Search != "" {
		pattern := arg("%" + f.Search + "%")
		where = append(where, fmt.Sprintf(
			"(title ILIKE %[1]s OR subject ILIKE %[1]s OR description ILIKE %[1]s OR EXISTS (SELECT 1 FROM unnest(tags) tag WHERE tag ILIKE %[1]s))",
			pattern))
	}
	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := repo.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notes`+whereClause, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting notes")
	}

	query := `SELECT * FROM notes` + whereClause +
		` ORDER BY created_at DESC LIMIT ` + arg(f.PageSize) + ` OFFSET ` + arg((f.Page-1)*f.PageSize)
	var rows []dbNote
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying notes")
	}

	notes := make([]note.Note, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, row.unpack())
	}
	if err := repo.loadRatings(ctx, notes); err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

func (repo noteRepository) DeleteNote(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting note")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return note.ErrNotFound
	}
	return nil
}

func (repo noteRepository) IncrementDownloads(ctx context.Context, id string) (note.Note, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE notes SET downloads = downloads + 1 WHERE id = $1`, id)
	if err != nil {
		return note.Note{}, errors.Wrap(err, "incrementing downloads")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return note.Note{}, note.ErrNotFound
	}
	return repo.getNote(ctx, id)
}

func (repo noteRepository) SetBookmark(ctx context.Context, noteID, userID string, on bool) (note.Note, error) {
	return repo.setMark(ctx, "bookmarks", noteID, userID, on)
}

func (repo noteRepository) SetLike(ctx context.Context, noteID, userID string, on bool) (note.Note, error) {
	return repo.setMark(ctx, "likes", noteID, userID, on)
}

func (repo noteRepository) setMark(ctx context.Context, column, noteID, userID string, on bool) (note.Note, error) {
	// array_remove first keeps the column duplicate free
	query := fmt.Sprintf(`UPDATE notes SET %[1]s = array_remove(%[1]s, $2) WHERE id = $1`, column)
	if on {
		query = fmt.Sprintf(`UPDATE notes SET %[1]s = array_append(array_remove(%[1]s, $2), $2) WHERE id = $1`, column)
	}
	res, err := repo.db.ExecContext(ctx, query, noteID, userID)
	if err != nil {
		return note.Note{}, errors.Wrapf(err, "updating note %s", column)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return note.Note{}, note.ErrNotFound
	}
	return repo.getNote(ctx, noteID)
}

func (repo noteRepository) RateNote(ctx context.Context, noteID, userID string, score int) (note.Note, error) {
	const query = `
INSERT INTO note_ratings (note_id, user_id, score)
VALUES ($1, $2, $3)
ON CONFLICT (note_id, user_id) DO UPDATE SET score = EXCLUDED.score`
	if _, err := repo.db.ExecContext(ctx, query, noteID, userID, score); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" { // fk violation: unknown note
			return note.Note{}, note.ErrNotFound
		}
		return note.Note{}, errors.Wrap(err, "rating note")
	}
	return repo.getNote(ctx, noteID)
}
