package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. LOG_LEVEL picks the level and
// LOG_FORMAT=text switches from JSON to the human readable formatter.
func New() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(formatter(os.Getenv("LOG_FORMAT")))
	l.SetLevel(level(os.Getenv("LOG_LEVEL")))
	return l
}

func formatter(name string) logrus.Formatter {
	if strings.EqualFold(strings.TrimSpace(name), "text") {
		return &logrus.TextFormatter{FullTimestamp: true}
	}
	return &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{logrus.FieldKeyMsg: "message"},
	}
}

func level(name string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
