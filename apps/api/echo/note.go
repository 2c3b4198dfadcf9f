package echoapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/phoenixdev100/tap/core/access"
	"github.com/phoenixdev100/tap/core/note"
)

type noteApi struct {
	deps *ServerDeps
}

func registerNoteAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := noteApi{deps: deps}

	ng := g.Group("/notes", jwt)
	ng.GET("", api.list, requirePermission(access.ResourceNote, access.ActionList))
	ng.POST("", api.create, requirePermission(access.ResourceNote, access.ActionCreate))
	ng.GET("/:id", api.retrieve, requirePermission(access.ResourceNote, access.ActionRead))
	ng.DELETE("/:id", api.destroy, requirePermission(access.ResourceNote, access.ActionDelete))
	ng.GET("/:id/download", api.download, requirePermission(access.ResourceNote, access.ActionDownload))
	ng.POST("/:id/bookmark", api.toggleBookmark, requirePermission(access.ResourceNote, access.ActionReact))
	ng.POST("/:id/like", api.toggleLike, requirePermission(access.ResourceNote, access.ActionReact))
	ng.POST("/:id/rate", api.rate, requirePermission(access.ResourceNote, access.ActionReact))
}

// Handlers

func (api *noteApi) list(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	filter := bindNoteFilter(ctx, claims.Subject)
	page, err := api.deps.NoteSvc.List(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "listing notes")
	}
	if page.Items == nil {
		page.Items = []note.View{}
	}
	return ctx.JSON(http.StatusOK, successData(page))
}

func (api *noteApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	file, err := formFileUpload(ctx, "file")
	if err != nil {
		return err
	}
	data := note.NewNote{
		Title:       ctx.FormValue("title"),
		Subject:     ctx.FormValue("subject"),
		Description: ctx.FormValue("description"),
		Tags:        splitTags(ctx.FormValue("tags")),
		File:        file,
	}
	if raw := ctx.FormValue("is_public"); raw != "" {
		if isPublic, err := strconv.ParseBool(raw); err == nil {
			data.IsPublic = &isPublic
		}
	}
	if err := data.Validate(api.deps.Validate, api.deps.Conf); err != nil {
		return err
	}

	n, err := api.deps.NoteSvc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating note")
	}
	return ctx.JSON(http.StatusCreated, successData(note.ViewFor(n, claims.Subject)))
}

func (api *noteApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	n, err := api.visibleNote(ctx, claims)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, successData(note.ViewFor(n, claims.Subject)))
}

func (api *noteApi) download(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if _, err := api.visibleNote(ctx, claims); err != nil {
		return err
	}
	n, err := api.deps.NoteSvc.Download(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "downloading note")
	}
	return sendFile(ctx, n.FileName, n.FileType, n.FileContent)
}

func (api *noteApi) toggleBookmark(ctx echo.Context) error {
	return api.react(ctx, api.deps.NoteSvc.ToggleBookmark)
}

func (api *noteApi) toggleLike(ctx echo.Context) error {
	return api.react(ctx, api.deps.NoteSvc.ToggleLike)
}

func (api *noteApi) react(ctx echo.Context, toggle func(reqCtx context.Context, noteID, viewerID string) (note.View, error)) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	view, err := toggle(ctx.Request().Context(), ctx.Param("id"), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "toggling note reaction")
	}
	return ctx.JSON(http.StatusOK, successData(view))
}

func (api *noteApi) rate(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data RatingRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RatingRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	view, err := api.deps.NoteSvc.Rate(ctx.Request().Context(), ctx.Param("id"), claims.Subject, data.Rating)
	if err != nil {
		return errors.Wrap(err, "rating note")
	}
	return ctx.JSON(http.StatusOK, successData(view))
}

func (api *noteApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	n, err := api.deps.NoteSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding note")
	}
	if err := ownedOrFull(ctx, claims, n.UploaderID); err != nil {
		return err
	}

	if err := api.deps.NoteSvc.Delete(ctx.Request().Context(), n.ID); err != nil {
		return errors.Wrap(err, "deleting note")
	}
	return ctx.JSON(http.StatusOK, successMessage("Note deleted."))
}

// visibleNote fetches a note, hiding private notes from everyone but
// their uploader and admins.
func (api *noteApi) visibleNote(ctx echo.Context, claims Claims) (note.Note, error) {
	n, err := api.deps.NoteSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return note.Note{}, errors.Wrap(err, "finding note")
	}
	if !n.IsPublic && n.UploaderID != claims.Subject && !claims.IsAdmin() {
		return note.Note{}, errHttpNotFound
	}
	return n, nil
}
