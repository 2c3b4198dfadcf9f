package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/phoenixdev100/tap/core"
	"github.com/phoenixdev100/tap/core/assignment"
	"github.com/phoenixdev100/tap/core/attendance"
	"github.com/phoenixdev100/tap/core/note"
	"github.com/phoenixdev100/tap/core/schedule"
	"github.com/phoenixdev100/tap/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
	errTooManyRequests      = echo.NewHTTPError(http.StatusTooManyRequests, "too many attempts, please try again later")
)

// notFoundSentinels are domain lookups that surface as plain 404s.
var notFoundSentinels = map[error]bool{
	user.ErrNotFound:                 true,
	schedule.ErrNotFound:             true,
	assignment.ErrNotFound:           true,
	assignment.ErrSubmissionNotFound: true,
	attendance.ErrStudentNotFound:    true,
	note.ErrNotFound:                 true,
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}
		var fldErrs map[string]string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs = make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *core.ConflictError:
			code = http.StatusConflict
			message = origErr.Error()
		default:
			cause := errors.Cause(err)
			switch {
			case notFoundSentinels[cause]:
				code = http.StatusNotFound
				message = cause.Error()
			case cause == assignment.ErrNotAssigned:
				code = http.StatusForbidden
				message = cause.Error()
			case cause == assignment.ErrNotOpen:
				code = http.StatusBadRequest
				message = cause.Error()
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				var usr user.User
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					usr.ID = claims.Subject
					usr.Username = claims.Username
					usr.Email = claims.Email
				}
				logger.Error(msg, errors.Wrap(err, msg), usr)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug && fldErrs == nil {
			message = err.Error()
		}

		var payload interface{}
		if fldErrs != nil {
			payload = echo.Map{"success": false, "errors": fldErrs}
		} else {
			payload = echo.Map{"success": false, "message": message}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, payload)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
