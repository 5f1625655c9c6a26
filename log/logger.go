package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Logger is the global logging instance
// nolint:gochecknoglobals
var logger *logrus.Logger

// nolint:gochecknoinits
func init() {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	ConfigureLogger("info")
}

// Log returns the global logger
func Log() *logrus.Logger {
	return logger
}

// PrefixedLog return the global logger with prefix
func PrefixedLog(prefix string) *logrus.Entry {
	return logger.WithField("prefix", prefix)
}

// ConfigureLogger applies the log level to the global logger
func ConfigureLogger(level string) {
	if lvl, err := logrus.ParseLevel(level); err != nil {
		logger.Fatalf("invalid log level %s %v", level, err)
	} else {
		logger.SetLevel(lvl)
	}

	logFormatter := &prefixed.TextFormatter{
		TimestampFormat:  "2006-01-02 15:04:05",
		FullTimestamp:    true,
		ForceFormatting:  true,
		ForceColors:      false,
		QuoteEmptyFields: true,
	}

	logFormatter.SetColorScheme(&prefixed.ColorScheme{
		PrefixStyle:    "blue+b",
		TimestampStyle: "white+h",
	})

	logger.SetFormatter(logFormatter)
}

// Silence disables the logger output
func Silence() {
	logger.Out = io.Discard
}
