package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerParsesLevel(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("shouting")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestPipelineLoggerIngestionRun(t *testing.T) {
	log, buf := setupTestLogger()
	pipelineLogger := NewPipelineLogger(log)

	pipelineLogger.LogIngestionRun("run_001", 2025, 7, 512, 498, 1800*time.Millisecond)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "run_001", logEntry["run_id"])
	assert.Equal(t, float64(7), logEntry["week"])
	assert.Equal(t, "pipeline", logEntry["component"])
}

func TestPipelineLoggerIngestionFailure(t *testing.T) {
	log, buf := setupTestLogger()
	pipelineLogger := NewPipelineLogger(log)

	pipelineLogger.LogIngestionFailure("run_002", 2025, 8, errors.New("provider timeout"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "provider timeout", logEntry["error"])
	assert.Equal(t, "error", logEntry["level"])
}

func TestPipelineLoggerRollingRecompute(t *testing.T) {
	log, buf := setupTestLogger()
	pipelineLogger := NewPipelineLogger(log)

	pipelineLogger.LogRollingRecompute("run_003", 1400, 2, 6*time.Second)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(1400), logEntry["players"])
	assert.Equal(t, float64(2), logEntry["failures"])
}

func TestPipelineLoggerProjectionRun(t *testing.T) {
	log, buf := setupTestLogger()
	pipelineLogger := NewPipelineLogger(log)

	pipelineLogger.LogProjectionRun("run_004", 220, 1870, 14, 900*time.Millisecond)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(1870), logEntry["priced"])
	assert.Equal(t, float64(14), logEntry["unresolved"])
}

func TestLoggerJSONFormat(t *testing.T) {
	log, buf := setupTestLogger()
	pipelineLogger := NewPipelineLogger(log)

	pipelineLogger.LogPropCapture("run_005", 16, 210, 4*time.Second)

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.NotEmpty(t, logEntry)
}

func BenchmarkPipelineLoggerProjectionRun(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	pipelineLogger := NewPipelineLogger(log)

	for i := 0; i < b.N; i++ {
		pipelineLogger.LogProjectionRun("run_bench", 220, 1870, 14, time.Second)
	}
}
