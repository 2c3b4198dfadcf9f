package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/phoenixdev100/tap/core/access"
	"github.com/phoenixdev100/tap/core/schedule"
)

type scheduleApi struct {
	deps *ServerDeps
}

func registerScheduleAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := scheduleApi{deps: deps}

	sg := g.Group("/schedule", jwt)
	sg.GET("", api.list, requirePermission(access.ResourceSchedule, access.ActionList))
	sg.POST("", api.create, requirePermission(access.ResourceSchedule, access.ActionCreate))
	sg.PUT("/:id", api.update, requirePermission(access.ResourceSchedule, access.ActionUpdate))
	sg.DELETE("/:id", api.destroy, requirePermission(access.ResourceSchedule, access.ActionDelete))
}

// Handlers

func (api *scheduleApi) list(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var entries []schedule.Entry
	if contextDecision(ctx) == access.AllowOwn {
		entries, err = api.deps.ScheduleSvc.ListByOwner(ctx.Request().Context(), claims.Subject)
	} else {
		entries, err = api.deps.ScheduleSvc.List(ctx.Request().Context())
	}
	if err != nil {
		return errors.Wrap(err, "listing schedule entries")
	}
	if entries == nil {
		entries = []schedule.Entry{}
	}
	return ctx.JSON(http.StatusOK, successData(entries))
}

func (api *scheduleApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data schedule.NewEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEntry")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	entry, err := api.deps.ScheduleSvc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating schedule entry")
	}
	return ctx.JSON(http.StatusCreated, successData(entry))
}

func (api *scheduleApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	entry, err := api.deps.ScheduleSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding schedule entry")
	}
	if err := ownedOrFull(ctx, claims, entry.OwnerID); err != nil {
		return err
	}

	var data schedule.UpdateEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEntry")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	entry, err = api.deps.ScheduleSvc.Update(ctx.Request().Context(), entry, data)
	if err != nil {
		return errors.Wrap(err, "updating schedule entry")
	}
	return ctx.JSON(http.StatusOK, successData(entry))
}

func (api *scheduleApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	entry, err := api.deps.ScheduleSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding schedule entry")
	}
	if err := ownedOrFull(ctx, claims, entry.OwnerID); err != nil {
		return err
	}

	if err := api.deps.ScheduleSvc.Delete(ctx.Request().Context(), entry.ID); err != nil {
		return errors.Wrap(err, "deleting schedule entry")
	}
	return ctx.JSON(http.StatusOK, successMessage("Schedule entry deleted."))
}
