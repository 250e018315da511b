// Package logging wraps logrus initialization, matching shared/pkg/logger
// in the teacher repo: JSON in production, colored text in development,
// level resolved from config with a safe fallback to Info.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds a process-wide logger. Unlike the teacher's package-level
// logger.Logger global, this is constructed once in cmd/server and passed
// down explicitly, since a simulation must never consult shared mutable
// state mid-match.
func New(level, format string, isDevelopment bool) *logrus.Logger {
	log := logrus.New()

	if level == "" {
		if isDevelopment {
			level = "debug"
		} else {
			level = "info"
		}
	}

	if parsed, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
		log.SetLevel(parsed)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", level).Warn("invalid LOG_LEVEL, using info")
	}

	if !isDevelopment || strings.ToLower(format) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	log.SetOutput(os.Stdout)
	return log
}
