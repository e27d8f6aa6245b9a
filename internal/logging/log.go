// Package logging provides the process-wide structured logger. Grounded on
// the teacher's pkg/util/log.go: a package-level logrus.Logger configured
// once, with small With* helpers scoped to this domain instead of the
// teacher's device/operation fields.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the global logger instance used by the parser, resolver, and CLI.
var Logger = logrus.New()

func init() {
	Logger.SetOutput(os.Stderr)
	Logger.SetLevel(logrus.InfoLevel)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// SetLevel sets the logging level from a level name ("debug", "info", ...).
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger.SetLevel(lvl)
	return nil
}

// SetOutput sets the log output destination.
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// SetJSONFormat enables JSON log output, used by the CLI's --json flag.
func SetJSONFormat() {
	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
}

// WithSource returns a logger entry tagged with the source file or stream
// name currently being parsed.
func WithSource(source string) *logrus.Entry {
	return Logger.WithField("source", source)
}

// WithBlock returns a logger entry tagged with the top-level block kind
// currently being parsed ("interfaces", "icons", "labels", "devices").
func WithBlock(block string) *logrus.Entry {
	return Logger.WithField("block", block)
}

// WithDevice returns a logger entry tagged with a device's HID id pair.
func WithDevice(ids string) *logrus.Entry {
	return Logger.WithField("device", ids)
}
