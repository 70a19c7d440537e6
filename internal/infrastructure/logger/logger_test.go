// internal/infrastructure/logger/logger_test.go
package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Debug("Debug message", map[string]interface{}{
		"key1": "value1",
	})

	logEntry := decodeEntry(t, &buf)
	assert.Equal(t, "DEBUG", logEntry["level"])
	assert.Equal(t, "Debug message", logEntry["message"])
	assert.Equal(t, "value1", logEntry["key1"])
	assert.Contains(t, logEntry, "timestamp")
	assert.Contains(t, logEntry["caller"], "logger_test.go")

	// Levels below the threshold are dropped
	buf.Reset()
	warnLogger := NewJSONLogger(&buf, WarnLevel)
	warnLogger.Debug("Should not appear", nil)
	warnLogger.Info("Should not appear either", nil)
	assert.Equal(t, "", buf.String())

	warnLogger.Warn("Warning message", nil)
	assert.Contains(t, buf.String(), "Warning message")

	// WithField
	buf.Reset()
	logger.WithField("context", "test").Info("With field", nil)
	logEntry = decodeEntry(t, &buf)
	assert.Equal(t, "test", logEntry["context"])
	assert.Equal(t, "With field", logEntry["message"])

	// WithFields
	buf.Reset()
	logger.WithFields(map[string]interface{}{
		"app":     "test-app",
		"version": "1.0.0",
	}).Info("With fields", nil)
	logEntry = decodeEntry(t, &buf)
	assert.Equal(t, "test-app", logEntry["app"])
	assert.Equal(t, "1.0.0", logEntry["version"])

	// Empty WithFields returns the same logger
	assert.Same(t, logger, logger.WithFields(nil))

	buf.Reset()
	infoLogger := NewJSONLogger(&buf, InfoLevel)
	infoLogger.Debug("Debug", nil)
	assert.Equal(t, "", buf.String())

	infoLogger.Error("Error", map[string]interface{}{"code": 42})
	logEntry = decodeEntry(t, &buf)
	assert.Equal(t, "ERROR", logEntry["level"])
	assert.Equal(t, float64(42), logEntry["code"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel("warning"))
	assert.Equal(t, WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, FatalLevel, ParseLevel("fatal"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
}

func TestDefaultLogger(t *testing.T) {
	original := GetDefaultLogger()
	defer SetDefaultLogger(original)

	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))
	Info("via package", map[string]interface{}{"k": "v"})
	assert.Contains(t, buf.String(), "via package")

	// nil is ignored
	SetDefaultLogger(nil)
	assert.NotNil(t, GetDefaultLogger())
}
