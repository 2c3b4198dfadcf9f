package note

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phoenixdev100/tap/core"
)

type fakeRepo struct {
	notes map[string]Note
}

func newFakeRepo() *fakeRepo { return &fakeRepo{notes: make(map[string]Note)} }

func (r *fakeRepo) CreateNote(_ context.Context, n Note) (Note, error) {
	if n.Ratings == nil {
		n.Ratings = make(map[string]int)
	}
	r.notes[n.ID] = n
	return n, nil
}
func (r *fakeRepo) GetNoteByID(_ context.Context, id string) (Note, error) {
	n, ok := r.notes[id]
	if !ok {
		return Note{}, ErrNotFound
	}
	return n, nil
}
func (r *fakeRepo) ListNotes(_ context.Context, f Filter) ([]Note, int, error) {
	var matched []Note
	for _, n := range r.notes {
		switch f.Category {
		case CategoryMy:
			if n.UploaderID != f.ViewerID {
				continue
			}
		case CategoryBookmarked:
			if !n.IsBookmarkedBy(f.ViewerID) {
				continue
			}
		case CategoryPopular:
			if n.Downloads < PopularThreshold {
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
		matched = append(matched, n)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })

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
func (r *fakeRepo) DeleteNote(_ context.Context, id string) error {
	if _, ok := r.notes[id]; !ok {
		return ErrNotFound
	}
	delete(r.notes, id)
	return nil
}
func (r *fakeRepo) IncrementDownloads(_ context.Context, id string) (Note, error) {
	n, ok := r.notes[id]
	if !ok {
		return Note{}, ErrNotFound
	}
	n.Downloads++
	r.notes[id] = n
	return n, nil
}
func (r *fakeRepo) SetBookmark(_ context.Context, noteID, userID string, on bool) (Note, error) {
	return r.setMark(noteID, userID, on, true)
}
func (r *fakeRepo) SetLike(_ context.Context, noteID, userID string, on bool) (Note, error) {
	return r.setMark(noteID, userID, on, false)
}
func (r *fakeRepo) setMark(noteID, userID string, on, bookmark bool) (Note, error) {
	n, ok := r.notes[noteID]
	if !ok {
		return Note{}, ErrNotFound
	}
	ids := n.Likes
	if bookmark {
		ids = n.Bookmarks
	}
	var out []string
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
	r.notes[noteID] = n
	return n, nil
}
func (r *fakeRepo) RateNote(_ context.Context, noteID, userID string, score int) (Note, error) {
	n, ok := r.notes[noteID]
	if !ok {
		return Note{}, ErrNotFound
	}
	if n.Ratings == nil {
		n.Ratings = make(map[string]int)
	}
	n.Ratings[userID] = score
	r.notes[noteID] = n
	return n, nil
}

func upload() NewNote {
	return NewNote{
		Title:   "Calculus Summary",
		Subject: "Math",
		Tags:    []string{"calculus"},
		File: &core.FileUpload{
			Name:        "calc.pdf",
			ContentType: "application/pdf",
			Size:        1024,
			Content:     []byte("%PDF-1.4"),
		},
	}
}

func TestServiceToggles(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())
	n, err := svc.Create(ctx, "u1", upload())
	require.NoError(t, err)

	view, err := svc.ToggleBookmark(ctx, n.ID, "u2")
	require.NoError(t, err)
	assert.True(t, view.IsBookmarked)

	view, err = svc.ToggleBookmark(ctx, n.ID, "u2")
	require.NoError(t, err)
	assert.False(t, view.IsBookmarked)

	view, err = svc.ToggleLike(ctx, n.ID, "u2")
	require.NoError(t, err)
	assert.True(t, view.IsLiked)
	assert.Equal(t, 1, view.LikeCount)

	view, err = svc.ToggleLike(ctx, n.ID, "u2")
	require.NoError(t, err)
	assert.False(t, view.IsLiked)
	assert.Equal(t, 0, view.LikeCount)
}

func TestServiceRate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())
	n, err := svc.Create(ctx, "u1", upload())
	require.NoError(t, err)

	for _, score := range []int{0, 6, -1} {
		_, err := svc.Rate(ctx, n.ID, "u2", score)
		assert.Truef(t, core.IsValidationError(err), "score %d: want validation error, got %v", score, err)
	}

	view, err := svc.Rate(ctx, n.ID, "u2", 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, view.AverageRating)
	assert.Equal(t, 4, view.MyRating)

	// re-rating overwrites
	view, err = svc.Rate(ctx, n.ID, "u2", 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, view.AverageRating)
	assert.Equal(t, 1, view.RatingCount)

	_, err = svc.Rate(ctx, n.ID, "u3", 5)
	require.NoError(t, err)
	got, err := svc.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.5, got.AverageRating())
}

func TestServiceListFilters(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	mine, err := svc.Create(ctx, "u1", upload())
	require.NoError(t, err)
	other := upload()
	other.Title = "Physics Notes"
	other.Subject = "Physics"
	other.Tags = []string{"mechanics"}
	_, err = svc.Create(ctx, "u2", other)
	require.NoError(t, err)

	// make one popular
	for i := 0; i < PopularThreshold; i++ {
		_, err = svc.Download(ctx, mine.ID)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{name: "all", filter: Filter{ViewerID: "u1"}, want: 2},
		{name: "my", filter: Filter{ViewerID: "u1", Category: CategoryMy}, want: 1},
		{name: "popular", filter: Filter{ViewerID: "u1", Category: CategoryPopular}, want: 1},
		{name: "bookmarked empty", filter: Filter{ViewerID: "u1", Category: CategoryBookmarked}, want: 0},
		{name: "search title", filter: Filter{ViewerID: "u1", Search: "physics"}, want: 1},
		{name: "search tag", filter: Filter{ViewerID: "u1", Search: "mechanics"}, want: 1},
		{name: "search miss", filter: Filter{ViewerID: "u1", Search: "chemistry"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := svc.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, list.Items, tt.want)
			assert.Equal(t, tt.want, list.Total)
		})
	}
}

func TestServiceListPagination(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())
	for i := 0; i < 5; i++ {
		nn := upload()
		nn.Title = string(rune('a'+i)) + " note"
		_, err := svc.Create(ctx, "u1", nn)
		require.NoError(t, err)
	}

	page1, err := svc.List(ctx, Filter{ViewerID: "u1", Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page1.Items, 2)
	assert.Equal(t, 5, page1.Total)

	page3, err := svc.List(ctx, Filter{ViewerID: "u1", Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page3.Items, 1)

	beyond, err := svc.List(ctx, Filter{ViewerID: "u1", Page: 9, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
}
