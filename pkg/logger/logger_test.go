package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesFieldsAndCaller(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "debug", Format: "json", Output: &buf})

	Info("dealer created", map[string]interface{}{"dealer_id": 42})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "dealer created", line["message"])
	assert.Equal(t, float64(42), line["dealer_id"])
	assert.Contains(t, line["caller"], "logger_test.go")
}

func TestLogger_ErrorAndContext(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "info", Format: "json", Output: &buf})

	WithContext(map[string]interface{}{"request_id": "abc"}).Error("write failed", errors.New("boom"))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "abc", line["request_id"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "warn", Format: "json", Output: &buf})

	Debug("hidden")
	Info("hidden too")
	assert.Zero(t, buf.Len())

	Warn("visible")
	assert.Contains(t, buf.String(), "visible")

	// restore for other tests in the package
	Initialize(Config{Level: "info", Format: "json", Output: &bytes.Buffer{}})
}

func TestParseLogLevel_DefaultsToInfo(t *testing.T) {
	assert.Equal(t, "info", parseLogLevel("nonsense").String())
	assert.Equal(t, "debug", parseLogLevel("DEBUG").String())
}
