package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config selects the log level ("debug", "info", "warn", "error") and the
// output format ("text" or "json").
type Config struct {
	Level  string
	Format string
}

// New builds the process-wide logger.
func New(cfg Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
