package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/phoenixdev100/tap/core"
	"github.com/phoenixdev100/tap/core/assignment"
	"github.com/phoenixdev100/tap/core/attendance"
	"github.com/phoenixdev100/tap/core/note"
	"github.com/phoenixdev100/tap/core/schedule"
	"github.com/phoenixdev100/tap/core/user"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool

		UserSvc       user.Service
		ScheduleSvc   schedule.Service
		AssignmentSvc assignment.Service
		AttendanceSvc attendance.Service
		NoteSvc       note.Service
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps       ServerDeps
		app        *echo.Echo
		limiter    *rateLimiter
		errCh      chan error
		shutdownCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:       deps,
		app:        echo.New(),
		limiter:    newRateLimiter(deps.Conf),
		errCh:      make(chan error, 1),
		shutdownCh: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: conf.Server.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	// leave headroom for the multipart envelope around the payload
	s.app.Use(middleware.BodyLimit(fmt.Sprintf("%dM", (conf.Upload.MaxSize>>20)+2)))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.HideBanner = true
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))

	registerAuthAPI(api, jwt, s.limiter, &s.deps)
	registerScheduleAPI(api, jwt, &s.deps)
	registerAssignmentAPI(api, jwt, &s.deps)
	registerAttendanceAPI(api, jwt, &s.deps)
	registerNoteAPI(api, jwt, &s.deps)
}

func (s *server) Start() {
	signal.Notify(s.shutdownCh, os.Interrupt, syscall.SIGTERM)
	s.errCh <- s.app.Start(s.deps.Conf.Server.Addr)
}

func (s *server) Shutdown(ctx context.Context) error {
	s.limiter.stop()
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error { return s.errCh }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdownCh }

// signalShutdown requests a graceful shutdown, as if on SIGTERM.
func (s *server) signalShutdown() {
	s.shutdownCh <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, successMessage("Welcome to the TAP API!"))
}
