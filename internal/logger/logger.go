// Package logger builds the go-kit logger used across commands.
package logger

import (
	"os"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

const (
	LogFormatLogfmt = "logfmt"
	LogFormatJSON   = "json"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// New returns a leveled logger writing to stderr in the given format.
// Unknown levels fall back to info, unknown formats to logfmt.
func New(logLevel, logFormat string) log.Logger {
	var l log.Logger
	if strings.ToLower(logFormat) == LogFormatJSON {
		l = log.NewJSONLogger(log.NewSyncWriter(os.Stderr))
	} else {
		l = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	}

	l = level.NewFilter(l, filter(logLevel))

	return log.With(l, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

func filter(logLevel string) level.Option {
	switch strings.ToLower(logLevel) {
	case LogLevelDebug:
		return level.AllowDebug()
	case LogLevelWarn:
		return level.AllowWarn()
	case LogLevelError:
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}
