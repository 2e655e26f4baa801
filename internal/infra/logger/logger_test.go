package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"homework_status_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_ProductionUsesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	Configure(l, &buf, "warn", "production")

	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	l.Info("dropped")
	l.WithField("cursor", 100).Warn("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, float64(100), line["cursor"])
}

func TestConfigure_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	Configure(l, &buf, "loud", "development")

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.Contains(t, buf.String(), "Invalid log level")
	_, isText := l.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
}

func TestInit_ConfiguresSharedLogger(t *testing.T) {
	level, formatter, out := Log.GetLevel(), Log.Formatter, Log.Out
	t.Cleanup(func() {
		Log.SetLevel(level)
		Log.SetFormatter(formatter)
		Log.SetOutput(out)
	})

	Init(&config.AppConfig{LogLevel: "error", Environment: "staging"})

	assert.Same(t, Log, Get())
	assert.Equal(t, logrus.ErrorLevel, Get().GetLevel())
	_, isJSON := Get().Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}
