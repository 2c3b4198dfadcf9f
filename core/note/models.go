package note

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/phoenixdev100/tap/core"
)

// Category filters for note listings.
const (
	CategoryAll        = "all"
	CategoryMy         = "my"
	CategoryBookmarked = "bookmarked"
	CategoryPopular    = "popular"
)

// PopularThreshold is the download count from which a note counts as
// popular.
const PopularThreshold = 50

// Note is a shared study document with its social state.
type Note struct {
	ID          string    `json:"id"`
	UploaderID  string    `json:"uploader_id"`
	Title       string    `json:"title"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	FileName    string    `json:"file_name"`
	FileType    string    `json:"file_type"`
	FileSize    int64     `json:"file_size"`
	FileContent []byte    `json:"-"`
	IsPublic    bool      `json:"is_public"`
	Downloads   int       `json:"downloads"`
	Bookmarks   []string  `json:"-"` // user IDs
	Likes       []string  `json:"-"` // user IDs
	// Ratings maps user ID to their 1-5 score.
	Ratings   map[string]int `json:"-"`
	CreatedAt time.Time      `json:"created_at"` // UTC
	UpdatedAt time.Time      `json:"updated_at"` // UTC
}

// AverageRating is the mean score with one decimal, 0 when unrated.
func (n *Note) AverageRating() float64 {
	if len(n.Ratings) == 0 {
		return 0
	}
	var sum int
	for _, score := range n.Ratings {
		sum += score
	}
	return math.Round(float64(sum)/float64(len(n.Ratings))*10) / 10
}

func (n *Note) IsBookmarkedBy(userID string) bool { return containsID(n.Bookmarks, userID) }
func (n *Note) IsLikedBy(userID string) bool      { return containsID(n.Likes, userID) }

// Matches reports whether the note matches a case-insensitive search
// term over title, subject, description and tags.
func (n *Note) Matches(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range []string{n.Title, n.Subject, n.Description} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

// NewNote contains information needed to upload a new Note.
type NewNote struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Subject     string   `json:"subject" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=2000"`
	Tags        []string `json:"tags" validate:"omitempty,dive,max=30"`
	IsPublic    *bool    `json:"is_public"`
	File        *core.FileUpload
}

func (nn *NewNote) Validate(validate *validator.Validate, conf *core.Config) error {
	nn.Title = core.CleanString(nn.Title)
	nn.Subject = core.CleanString(nn.Subject)
	nn.Description = core.CleanString(nn.Description)
	for i, tag := range nn.Tags {
		nn.Tags[i] = core.CleanString(tag, true /* lower */)
	}
	if err := validate.Struct(nn); err != nil {
		return err
	}
	if nn.File == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "a file is required"})
	}
	return nn.File.Validate(conf)
}

// Filter scopes a note listing.
type Filter struct {
	ViewerID string
	Category string
	Search   string
	Page     int
	PageSize int
}

type Repository interface {
	CreateNote(ctx context.Context, n Note) (Note, error)
	GetNoteByID(ctx context.Context, id string) (Note, error)
	ListNotes(ctx context.Context, f Filter) ([]Note, int, error)
	DeleteNote(ctx context.Context, id string) error
	IncrementDownloads(ctx context.Context, id string) (Note, error)
	SetBookmark(ctx context.Context, noteID, userID string, on bool) (Note, error)
	SetLike(ctx context.Context, noteID, userID string, on bool) (Note, error)
	RateNote(ctx context.Context, noteID, userID string, score int) (Note, error)
}
