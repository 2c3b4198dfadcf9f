package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/phoenixdev100/tap/core/access"
	"github.com/phoenixdev100/tap/core/attendance"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errStudentIDRequired = echo.NewHTTPError(http.StatusBadRequest, "Student ID is required for teachers and admins")

type attendanceApi struct {
	deps *ServerDeps
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := attendanceApi{deps: deps}

	ag := g.Group("/attendance", jwt)
	ag.POST("/mark", api.mark, requirePermission(access.ResourceAttendance, access.ActionMark))
	ag.GET("/records", api.records, requirePermission(access.ResourceAttendance, access.ActionList))
	ag.GET("/stats", api.stats, requirePermission(access.ResourceAttendance, access.ActionStats))
	ag.GET("/export", api.export, requirePermission(access.ResourceAttendance, access.ActionExport))
}

// Handlers

func (api *attendanceApi) mark(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data attendance.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	rec, err := api.deps.AttendanceSvc.Mark(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusCreated, successData(rec))
}

// records returns one student's attendance history: students their
// own, teachers and admins the student named by the studentId query.
func (api *attendanceApi) records(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	studentID := claims.Subject
	if !claims.IsStudent() {
		if studentID = ctx.QueryParam("studentId"); studentID == "" {
			return errStudentIDRequired
		}
	}
	records, err := api.deps.AttendanceSvc.RecordsForStudent(ctx.Request().Context(), studentID)
	if err != nil {
		return errors.Wrap(err, "listing attendance records")
	}
	if records == nil {
		records = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, successData(records))
}

func (api *attendanceApi) stats(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reqCtx := ctx.Request().Context()

	var stats attendance.Stats
	switch {
	case claims.IsStudent():
		stats, err = api.deps.AttendanceSvc.StatsForStudent(reqCtx, claims.Subject)
	case claims.IsTeacher():
		stats, err = api.deps.AttendanceSvc.StatsForTeacher(reqCtx, claims.Subject)
	default:
		stats, err = api.deps.AttendanceSvc.StatsForAdmin(reqCtx)
	}
	if err != nil {
		return errors.Wrap(err, "computing attendance stats")
	}
	return ctx.JSON(http.StatusOK, successData(stats))
}

func (api *attendanceApi) export(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	reqCtx := ctx.Request().Context()
	var records []attendance.Record
	if claims.IsTeacher() && contextDecision(ctx) == access.AllowOwn {
		records, err = api.deps.AttendanceSvc.RecordsForMarker(reqCtx, claims.Subject)
	} else {
		records, err = api.deps.AttendanceSvc.AllRecords(reqCtx)
	}
	if err != nil {
		return errors.Wrap(err, "listing attendance records")
	}

	var buf bytes.Buffer
	if err := attendance.WriteXLSX(&buf, records); err != nil {
		return errors.Wrap(err, "writing attendance workbook")
	}

	name := fmt.Sprintf("attendance-%s.xlsx", time.Now().UTC().Format(attendance.DateFormat))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return ctx.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
