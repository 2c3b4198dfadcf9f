package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/phoenixdev100/tap/core/access"
	"github.com/phoenixdev100/tap/core/assignment"
)

type assignmentApi struct {
	deps *ServerDeps
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := assignmentApi{deps: deps}

	ag := g.Group("/assignments", jwt)
	ag.GET("", api.list, requirePermission(access.ResourceAssignment, access.ActionList))
	ag.GET("/stats", api.stats, requirePermission(access.ResourceAssignment, access.ActionStats))
	ag.POST("", api.create, requirePermission(access.ResourceAssignment, access.ActionCreate))
	ag.GET("/download/:assignmentId/:studentId", api.download, requirePermission(access.ResourceAssignment, access.ActionDownload))
	ag.GET("/:id", api.retrieve, requirePermission(access.ResourceAssignment, access.ActionRead))
	ag.PUT("/:id", api.update, requirePermission(access.ResourceAssignment, access.ActionUpdate))
	ag.DELETE("/:id", api.destroy, requirePermission(access.ResourceAssignment, access.ActionDelete))
	ag.POST("/:id/submit", api.submit, requirePermission(access.ResourceAssignment, access.ActionSubmit))
	ag.POST("/:id/grade/:studentId", api.grade, requirePermission(access.ResourceAssignment, access.ActionGrade))
}

// Handlers

func (api *assignmentApi) list(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reqCtx := ctx.Request().Context()

	switch {
	case claims.IsStudent():
		views, err := api.deps.AssignmentSvc.ListForStudent(reqCtx, claims.Subject)
		if err != nil {
			return errors.Wrap(err, "listing assignments for student")
		}
		return ctx.JSON(http.StatusOK, successData(views))
	case claims.IsTeacher():
		views, err := api.deps.AssignmentSvc.ListForTeacher(reqCtx, claims.Subject)
		if err != nil {
			return errors.Wrap(err, "listing assignments for teacher")
		}
		return ctx.JSON(http.StatusOK, successData(views))
	default:
		views, err := api.deps.AssignmentSvc.ListAll(reqCtx)
		if err != nil {
			return errors.Wrap(err, "listing all assignments")
		}
		return ctx.JSON(http.StatusOK, successData(views))
	}
}

func (api *assignmentApi) stats(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reqCtx := ctx.Request().Context()

	var stats interface{}
	switch {
	case claims.IsStudent():
		stats, err = api.deps.AssignmentSvc.StatsForStudent(reqCtx, claims.Subject)
	case claims.IsTeacher():
		stats, err = api.deps.AssignmentSvc.StatsForTeacher(reqCtx, claims.Subject)
	default:
		stats, err = api.deps.AssignmentSvc.StatsForAdmin(reqCtx)
	}
	if err != nil {
		return errors.Wrap(err, "computing assignment stats")
	}
	return ctx.JSON(http.StatusOK, successData(stats))
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reqCtx := ctx.Request().Context()

	a, err := api.deps.AssignmentSvc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding assignment")
	}

	if claims.IsStudent() {
		// students only see published assignments addressed to them,
		// or ones they already submitted to
		sub, subErr := api.deps.AssignmentSvc.GetSubmission(reqCtx, a.ID, claims.Subject)
		submitted := subErr == nil
		assigned := a.IsAssignedTo(claims.Subject, api.deps.Conf.Assignment.OpenEnrollment)
		if !submitted && (a.Status != assignment.StatusPublished || !assigned) {
			return errHttpNotFound
		}
		view := assignment.StudentView{Assignment: a}
		if submitted {
			submittedAt := sub.SubmittedAt
			view.Submitted = true
			view.SubmittedAt = &submittedAt
			view.Score = sub.Score
			view.Feedback = sub.Feedback
		}
		return ctx.JSON(http.StatusOK, successData(view))
	}

	if err := ownedOrFull(ctx, claims, a.TeacherID); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, successData(a))
}

func (api *assignmentApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	a, err := api.deps.AssignmentSvc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, successData(a))
}

func (api *assignmentApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	a, err := api.deps.AssignmentSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding assignment")
	}
	if err := ownedOrFull(ctx, claims, a.TeacherID); err != nil {
		return err
	}

	var data assignment.UpdateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	a, err = api.deps.AssignmentSvc.Update(ctx.Request().Context(), a, data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, successData(a))
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	a, err := api.deps.AssignmentSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding assignment")
	}
	if err := ownedOrFull(ctx, claims, a.TeacherID); err != nil {
		return err
	}

	if err := api.deps.AssignmentSvc.Delete(ctx.Request().Context(), a.ID); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.JSON(http.StatusOK, successMessage("Assignment deleted."))
}

func (api *assignmentApi) submit(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reqCtx := ctx.Request().Context()

	a, err := api.deps.AssignmentSvc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding assignment")
	}

	file, err := formFileUpload(ctx, "file")
	if err != nil {
		return err
	}
	data := assignment.NewSubmission{
		Comment: ctx.FormValue("comment"),
		File:    file,
	}
	if err := data.Validate(api.deps.Validate, api.deps.Conf); err != nil {
		return err
	}

	sub, err := api.deps.AssignmentSvc.Submit(reqCtx, a, claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "submitting assignment")
	}
	return ctx.JSON(http.StatusCreated, successData(sub))
}

func (api *assignmentApi) grade(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reqCtx := ctx.Request().Context()

	a, err := api.deps.AssignmentSvc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding assignment")
	}
	if err := ownedOrFull(ctx, claims, a.TeacherID); err != nil {
		return err
	}

	var data assignment.Grade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Grade")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	sub, err := api.deps.AssignmentSvc.GradeSubmission(reqCtx, a, ctx.Param("studentId"), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "grading submission")
	}
	return ctx.JSON(http.StatusOK, successData(sub))
}

func (api *assignmentApi) download(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reqCtx := ctx.Request().Context()
	studentID := ctx.Param("studentId")

	a, err := api.deps.AssignmentSvc.GetByID(reqCtx, ctx.Param("assignmentId"))
	if err != nil {
		return errors.Wrap(err, "finding assignment")
	}
	// the submitting student and the grading teacher may download
	if contextDecision(ctx) != access.AllowFull &&
		claims.Subject != studentID && claims.Subject != a.TeacherID {
		return errAccessDenied
	}

	sub, err := api.deps.AssignmentSvc.GetSubmission(reqCtx, a.ID, studentID)
	if err != nil {
		return errors.Wrap(err, "finding submission")
	}
	if len(sub.FileContent) == 0 {
		return errHttpNotFound
	}
	return sendFile(ctx, sub.FileName, sub.FileType, sub.FileContent)
}

// sendFile streams an in-memory blob as an attachment.
func sendFile(ctx echo.Context, name, contentType string, content []byte) error {
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return ctx.Blob(http.StatusOK, contentType, content)
}
