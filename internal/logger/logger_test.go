package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, level("debug"))
	assert.Equal(t, logrus.WarnLevel, level(" warning "))
	assert.Equal(t, logrus.InfoLevel, level(""))
	assert.Equal(t, logrus.InfoLevel, level("loud"))
}

func TestFormatter(t *testing.T) {
	assert.IsType(t, &logrus.TextFormatter{}, formatter("TEXT"))
	assert.IsType(t, &logrus.JSONFormatter{}, formatter(""))
}

func TestNewReadsEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "")
	l := New()
	assert.Equal(t, logrus.ErrorLevel, l.GetLevel())
}
