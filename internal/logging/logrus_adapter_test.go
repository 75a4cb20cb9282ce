package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
	}{
		{"debug level with text format", "debug", "text", logrus.DebugLevel},
		{"info level with json format", "info", "json", logrus.InfoLevel},
		{"upper-case level", "WARN", "text", logrus.WarnLevel},
		{"error level with json format", "error", "json", logrus.ErrorLevel},
		{"invalid level defaults to info", "invalid", "text", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			require.NotNil(t, logger)

			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok, "logger should be a LogrusAdapter")
			assert.Equal(t, tt.expectLevel, adapter.Level())

			if tt.format == "json" {
				_, ok := adapter.logger.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "formatter should be JSONFormatter")
			} else {
				_, ok := adapter.logger.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "formatter should be TextFormatter")
			}
		})
	}
}

func TestNewLogrusAdapterWithOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithOutput("info", "json", &buf)

	logger.Info("analysis finished", F(FieldCustomers, 12))

	assert.Contains(t, buf.String(), `"msg":"analysis finished"`)
	assert.Contains(t, buf.String(), `"customers":12`)
}

func TestNewLogrusAdapterFromLogger(t *testing.T) {
	t.Run("with existing logger", func(t *testing.T) {
		existing := logrus.New()
		existing.SetLevel(logrus.DebugLevel)

		adapter, ok := NewLogrusAdapterFromLogger(existing).(*LogrusAdapter)
		require.True(t, ok)
		assert.Equal(t, existing, adapter.logger)
	})

	t.Run("with nil logger creates new one", func(t *testing.T) {
		adapter, ok := NewLogrusAdapterFromLogger(nil).(*LogrusAdapter)
		require.True(t, ok)
		assert.NotNil(t, adapter.logger)
	})
}

func newBufferedLogger(level logrus.Level) (Logger, *bytes.Buffer) {
	logrusLogger := logrus.New()
	var buf bytes.Buffer
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetLevel(level)
	logrusLogger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return NewLogrusAdapterFromLogger(logrusLogger), &buf
}

func TestLogrusAdapter_LoggingMethods(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger, string, ...Field)
		message string
		fields  []Field
	}{
		{"Debug with fields", func(l Logger, msg string, f ...Field) { l.Debug(msg, f...) }, "debug message", []Field{F("stage", "aggregate")}},
		{"Info with fields", func(l Logger, msg string, f ...Field) { l.Info(msg, f...) }, "info message", []Field{F("rows", 10)}},
		{"Warn with fields", func(l Logger, msg string, f ...Field) { l.Warn(msg, f...) }, "warn message", []Field{F("column", "valor")}},
		{"Error with fields", func(l Logger, msg string, f ...Field) { l.Error(msg, f...) }, "error message", []Field{F("file_path", "a.csv")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferedLogger(logrus.DebugLevel)

			tt.logFunc(logger, tt.message, tt.fields...)

			output := buf.String()
			assert.Contains(t, output, tt.message)
			assert.Contains(t, output, tt.fields[0].Key)
		})
	}
}

func TestLogrusAdapter_ChainedCalls(t *testing.T) {
	logger, buf := newBufferedLogger(logrus.InfoLevel)

	logger.
		WithField(FieldFile, "vendas.csv").
		WithFields(F(FieldStage, "score")).
		WithError(errors.New("boom")).
		Error("stage failed")

	output := buf.String()
	assert.Contains(t, output, "stage failed")
	assert.Contains(t, output, "vendas.csv")
	assert.Contains(t, output, "score")
	assert.Contains(t, output, "boom")
}

func TestConvertFields(t *testing.T) {
	logrusFields := convertFields([]Field{F("key1", "value1"), F("key2", 42), F("key3", true)})

	assert.Len(t, logrusFields, 3)
	assert.Equal(t, "value1", logrusFields["key1"])
	assert.Equal(t, 42, logrusFields["key2"])
	assert.Equal(t, true, logrusFields["key3"])
	assert.Len(t, convertFields(nil), 0)
}

func TestMockLogger_DerivedLoggersShareEntries(t *testing.T) {
	mock := NewMockLogger()

	mock.WithField(FieldStage, "aggregate").Info("rows aggregated", F(FieldRows, 3))
	mock.WithError(errors.New("bad")).Warn("row skipped")
	mock.Debug("done")

	entries := mock.GetEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, []Field{F(FieldStage, "aggregate"), F(FieldRows, 3)}, entries[0].Fields)
	assert.EqualError(t, entries[1].Error, "bad")
	assert.True(t, mock.HasEntry("DEBUG", "done"))
	assert.Len(t, mock.GetEntriesByLevel("WARN"), 1)

	mock.Clear()
	assert.Empty(t, mock.GetEntries())
}

func TestLoggerImplementations(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}
