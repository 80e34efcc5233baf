// Package logger provides the logging interface used by the save store and
// the savectl command, backed by logrus.
package logger

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Logger interface is used to allow tests to inject custom loggers.
type Logger interface {
	Debugf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})
	Writer() io.Writer
	SetWriter(io.Writer)
}

type logger struct {
	*log.Logger
}

// NewLogger returns a new Logger instance backed by Logrus.
func NewLogger(level uint32) Logger {
	l := log.New()
	l.SetLevel(log.Level(level))
	l.Formatter = &log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
	return &logger{l}
}

func (l *logger) Writer() io.Writer {
	return l.Out
}

func (l *logger) SetWriter(writer io.Writer) {
	l.Out = writer
}

// ParseLevel converts a level name to its logrus value. It returns an error
// if the level is invalid.
func ParseLevel(level string) (uint32, error) {
	switch strings.ToLower(level) {
	case "debug":
		return uint32(log.DebugLevel), nil
	case "info":
		return uint32(log.InfoLevel), nil
	case "warn":
		return uint32(log.WarnLevel), nil
	case "error":
		return uint32(log.ErrorLevel), nil
	default:
		return 0, fmt.Errorf("logger: invalid level %q", level)
	}
}

type noop struct{}

// NoOp returns a Logger that discards everything.
func NoOp() Logger { return noop{} }

func (noop) Debugf(string, ...interface{}) {}
func (noop) Infof(string, ...interface{})  {}
func (noop) Warnf(string, ...interface{})  {}
func (noop) Errorf(string, ...interface{}) {}
func (noop) Writer() io.Writer             { return io.Discard }
func (noop) SetWriter(io.Writer)           {}
