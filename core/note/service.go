package note

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/phoenixdev100/tap/core"
)

var ErrNotFound = errors.New("note not found")

// Listing page size bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type (
	// View is a note as one viewer sees it, private arrays reduced
	// to flags and aggregates.
	View struct {
		Note
		AverageRating float64 `json:"average_rating"`
		RatingCount   int     `json:"rating_count"`
		LikeCount     int     `json:"like_count"`
		IsBookmarked  bool    `json:"is_bookmarked"`
		IsLiked       bool    `json:"is_liked"`
		MyRating      int     `json:"my_rating,omitempty"`
	}

	// List is one page of note views.
	List struct {
		Items    []View `json:"items"`
		Total    int    `json:"total"`
		Page     int    `json:"page"`
		PageSize int    `json:"page_size"`
	}

	Service interface {
		List(ctx context.Context, f Filter) (List, error)
		GetByID(ctx context.Context, id string) (Note, error)
		Create(ctx context.Context, uploaderID string, nn NewNote) (Note, error)
		Download(ctx context.Context, id string) (Note, error)
		ToggleBookmark(ctx context.Context, noteID, viewerID string) (View, error)
		ToggleLike(ctx context.Context, noteID, viewerID string) (View, error)
		Rate(ctx context.Context, noteID, viewerID string, score int) (View, error)
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

// ViewFor shapes a note for a given viewer.
func ViewFor(n Note, viewerID string) View {
	return View{
		Note:          n,
		AverageRating: n.AverageRating(),
		RatingCount:   len(n.Ratings),
		LikeCount:     len(n.Likes),
		IsBookmarked:  n.IsBookmarkedBy(viewerID),
		IsLiked:       n.IsLikedBy(viewerID),
		MyRating:      n.Ratings[viewerID],
	}
}

func (svc *service) List(ctx context.Context, f Filter) (List, error) {
	if f.Category == "" {
		f.Category = CategoryAll
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}

	notes, total, err := svc.repo.ListNotes(ctx, f)
	if err != nil {
		return List{}, err
	}
	items := make([]View, 0, len(notes))
	for _, n := range notes {
		items = append(items, ViewFor(n, f.ViewerID))
	}
	return List{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

func (svc *service) GetByID(ctx context.Context, id string) (Note, error) {
	return svc.repo.GetNoteByID(ctx, id)
}

func (svc *service) Create(ctx context.Context, uploaderID string, nn NewNote) (Note, error) {
	now := time.Now().UTC()
	isPublic := true
	if nn.IsPublic != nil {
		isPublic = *nn.IsPublic
	}
	n := Note{
		ID:          uuid.New().String(),
		UploaderID:  uploaderID,
		Title:       nn.Title,
		Subject:     nn.Subject,
		Description: nn.Description,
		Tags:        nn.Tags,
		FileName:    nn.File.Name,
		FileType:    nn.File.ContentType,
		FileSize:    nn.File.Size,
		FileContent: nn.File.Content,
		IsPublic:    isPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateNote(ctx, n)
}

func (svc *service) Download(ctx context.Context, id string) (Note, error) {
	return svc.repo.IncrementDownloads(ctx, id)
}

func (svc *service) ToggleBookmark(ctx context.Context, noteID, viewerID string) (View, error) {
	n, err := svc.repo.GetNoteByID(ctx, noteID)
	if err != nil {
		return View{}, err
	}
	n, err = svc.repo.SetBookmark(ctx, noteID, viewerID, !n.IsBookmarkedBy(viewerID))
	if err != nil {
		return View{}, err
	}
	return ViewFor(n, viewerID), nil
}

func (svc *service) ToggleLike(ctx context.Context, noteID, viewerID string) (View, error) {
	n, err := svc.repo.GetNoteByID(ctx, noteID)
	if err != nil {
		return View{}, err
	}
	n, err = svc.repo.SetLike(ctx, noteID, viewerID, !n.IsLikedBy(viewerID))
	if err != nil {
		return View{}, err
	}
	return ViewFor(n, viewerID), nil
}

// Rate records a viewer's 1-5 score, overwriting any previous one.
func (svc *service) Rate(ctx context.Context, noteID, viewerID string, score int) (View, error) {
	if score < 1 || score > 5 {
		return View{}, core.NewValidationError(nil, core.FieldError{
			Field: "rating", Error: "rating must be between 1 and 5",
		})
	}
	n, err := svc.repo.RateNote(ctx, noteID, viewerID, score)
	if err != nil {
		return View{}, err
	}
	return ViewFor(n, viewerID), nil
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteNote(ctx, id)
}
