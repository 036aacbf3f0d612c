package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the application logger. Output is JSON so log collectors can
// index the structured fields without extra parsing.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}
