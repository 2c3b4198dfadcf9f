package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/phoenixdev100/tap/core"
	"github.com/phoenixdev100/tap/core/user"
)

// RollbarLogger ships every entry to Rollbar and mirrors it on a
// standard logger for local visibility.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// report sends one entry at the given severity. A user.User (or
// pointer) anywhere in args tags the Rollbar person; the first one
// wins and it is stripped from the forwarded arguments.
func (l RollbarLogger) report(severity func(...interface{}), msg string, args []interface{}) {
	fwd := make([]interface{}, 0, len(args)+1)
	fwd = append(fwd, msg)

	var person *user.User
	for _, arg := range args {
		switch usr := arg.(type) {
		case user.User:
			if person == nil {
				person = &usr
				continue
			}
		case *user.User:
			if person == nil && usr != nil {
				person = usr
				continue
			}
		}
		fwd = append(fwd, arg)
	}
	if person != nil {
		rollbar.SetPerson(person.ID, person.Username, person.Email)
	} else {
		rollbar.ClearPerson()
	}
	severity(fwd...)

	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	l.report(rollbar.Debug, msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	l.report(rollbar.Info, msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	l.report(rollbar.Warning, msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	l.report(rollbar.Error, msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.report(rollbar.Critical, msg, args)
	l.std.Fatal(msg)
}
