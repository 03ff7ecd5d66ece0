// Package logger wraps logrus with the layout the importer writes to its
// console: bare messages for results, timestamped text for diagnostics.
package logger

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is a wrapper around logrus.Logger
type Logger struct {
	*logrus.Logger
	verbose bool
}

// New creates a logger writing to out at info level.
func New(out io.Writer) *Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&messageFormatter{
		text: &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
			DisableQuote:    true,
		},
	})
	log.SetLevel(logrus.InfoLevel)

	return &Logger{Logger: log}
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level string) {
	switch level {
	case "debug":
		l.Logger.SetLevel(logrus.DebugLevel)
	case "info":
		l.Logger.SetLevel(logrus.InfoLevel)
	case "warn":
		l.Logger.SetLevel(logrus.WarnLevel)
	case "error":
		l.Logger.SetLevel(logrus.ErrorLevel)
	default:
		l.Logger.SetLevel(logrus.InfoLevel)
	}
}

// SetVerbose switches between terse and full diagnostic output. Verbose
// logging also enables debug entries.
func (l *Logger) SetVerbose(verbose bool) {
	l.verbose = verbose
	if verbose {
		l.SetLevel("debug")
	} else {
		l.SetLevel("info")
	}
}

// Failure reports a fatal error. Verbose loggers dump the whole error chain
// including any recorded stack; terse loggers print only the message.
func (l *Logger) Failure(err error) {
	if l.verbose {
		l.Logger.Errorf("Ops! %+v", err)
		return
	}
	l.Logger.Info(err)
}

// messageFormatter prints info entries without fields as the bare message and
// hands everything else to the text formatter.
type messageFormatter struct {
	text logrus.Formatter
}

func (f *messageFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry.Level == logrus.InfoLevel && len(entry.Data) == 0 {
		return append([]byte(entry.Message), '\n'), nil
	}
	return f.text.Format(entry)
}
