// Package log provides module-named leveled loggers sharing one output sink.
package log

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/op/go-logging"
)

// Level is a logging verbosity, from most to least verbose
type Level int

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var backendLevels = map[Level]logging.Level{
	Debug:   logging.DEBUG,
	Info:    logging.INFO,
	Notice:  logging.NOTICE,
	Warning: logging.WARNING,
	Error:   logging.ERROR,
}

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var (
	mu      sync.Mutex
	backend logging.LeveledBackend
	level   = Notice
)

// Logger is the leveled logger every package logs through
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns the logger of a module. Loggers are cheap and may be package variables.
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink redirects every logger to w, keeping the current level
func SetSink(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	formatted := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), format)
	backend = logging.AddModuleLevel(formatted)
	backend.SetLevel(backendLevels[level], "")
	logging.SetBackend(backend)
}

// SetLevel changes the verbosity of every logger
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()

	if _, ok := backendLevels[l]; !ok {
		return
	}
	level = l
	backend.SetLevel(backendLevels[l], "")
}

// CurrentLevel returns the verbosity set last
func CurrentLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return level
}

// Printer adapts a Logger to the Printf interface of the renderer.
// Messages are logged at notice level.
type Printer struct {
	logger Logger
}

// NewPrinter wraps a logger
func NewPrinter(logger Logger) *Printer {
	return &Printer{logger: logger}
}

// Printf logs one message without its trailing newline
func (p *Printer) Printf(format string, args ...interface{}) {
	p.logger.Noticef(strings.TrimSuffix(format, "\n"), args...)
}

func init() {
	SetSink(os.Stdout)
}
