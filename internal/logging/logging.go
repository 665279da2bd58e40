// Package logging builds the service loggers on top of gommon/log, the
// logger echo itself uses.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/labstack/gommon/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ErrorLogFile is the name of the rotating error log inside the log dir.
const ErrorLogFile = "app_errors.log"

// Loggers bundles the application logger and the error logger. App goes to
// stdout at the configured level; Errors goes to stdout and to a rotating
// file and only records ERROR and above.
type Loggers struct {
	App    *log.Logger
	Errors *log.Logger
	file   io.Closer
}

// New creates both loggers. When dir is empty the error log stays on
// stdout only.
func New(dir, level string) (*Loggers, error) {
	app := log.New("account-service")
	app.SetOutput(os.Stdout)
	app.SetLevel(ParseLevel(level))

	errs := log.New("errors")
	errs.SetLevel(log.ERROR)

	l := &Loggers{App: app, Errors: errs}
	if dir == "" {
		errs.SetOutput(os.Stdout)
		return l, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	// seven days of history, like a midnight rotation keeping 7 backups
	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(dir, ErrorLogFile),
		MaxSize:    50,
		MaxBackups: 7,
		MaxAge:     7,
		LocalTime:  true,
	}
	errs.SetOutput(io.MultiWriter(os.Stdout, rotating))
	l.file = rotating
	return l, nil
}

// Discard returns loggers that write nowhere, for tests.
func Discard() *Loggers {
	app := log.New("test")
	app.SetOutput(io.Discard)
	errs := log.New("test-errors")
	errs.SetOutput(io.Discard)
	return &Loggers{App: app, Errors: errs}
}

// Close flushes and closes the rotating file, if any.
func (l *Loggers) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel maps a level name to a gommon level, defaulting to INFO.
func ParseLevel(s string) log.Lvl {
	switch s {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
