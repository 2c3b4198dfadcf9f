package echoapi

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/phoenixdev100/tap/core"
	"github.com/phoenixdev100/tap/core/note"
	"github.com/phoenixdev100/tap/core/user"
)

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	// TokenResponse is returned on signup, login and token refresh.
	TokenResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}

	RatingRequest struct {
		Rating int `json:"rating" validate:"required,min=1,max=5"`
	}
)

func (r *LoginRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return validate.Struct(r)
}

func (r *PasswordResetRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return validate.Struct(r)
}

func (r *RatingRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

// successData wraps a domain payload in the response envelope.
func successData(data interface{}) echo.Map {
	return echo.Map{"success": true, "data": data}
}

func successMessage(msg string) echo.Map {
	return echo.Map{"success": true, "message": msg}
}

// formFileUpload reads a multipart form file into memory. A missing
// file is not an error; callers decide whether it is required.
func formFileUpload(ctx echo.Context, field string) (*core.FileUpload, error) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		if errors.Cause(err) == http.ErrMissingFile || errors.Cause(err) == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid form data").SetInternal(err)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "opening form file")
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "reading form file")
	}

	contentType := fh.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}
	return &core.FileUpload{
		Name:        fh.Filename,
		ContentType: contentType,
		Size:        int64(len(content)),
		Content:     content,
	}, nil
}

// bindNoteFilter reads the note listing query params.
func bindNoteFilter(ctx echo.Context, viewerID string) note.Filter {
	f := note.Filter{
		ViewerID: viewerID,
		Category: core.CleanString(ctx.QueryParam("category"), true /* lower */),
		Search:   core.CleanString(ctx.QueryParam("search")),
	}
	if page, err := strconv.Atoi(ctx.QueryParam("page")); err == nil {
		f.Page = page
	}
	if size, err := strconv.Atoi(ctx.QueryParam("page_size")); err == nil {
		f.PageSize = size
	}
	return f
}

// splitTags parses a comma separated form value into clean tags.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = core.CleanString(tag, true /* lower */); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
