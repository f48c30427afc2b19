/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLevel_String 测试日志级别的字符串表示
func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{OFF, "OFF"},
		{Level(999), "UNKNOWN"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel(" Warning "))
	assert.Equal(t, ERROR, ParseLevel("ERROR"))
	assert.Equal(t, OFF, ParseLevel("off"))
	assert.Equal(t, INFO, ParseLevel("whatever"))
}

// TestNewLogger 测试创建新的日志器
func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(INFO, &buf)
	require.NotNil(t, log)

	log.Info("built %d aggregations", 3)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "info", record["level"])
	assert.Equal(t, "built 3 aggregations", record["message"])
	assert.Equal(t, "druidql", record["component"])
	assert.Contains(t, record, "time")
}

func TestDefaultLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(WARN, &buf)

	log.Debug("debug message")
	log.Info("info message")
	assert.Empty(t, buf.String())

	log.Warn("warn message")
	log.Error("error message")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)

	buf.Reset()
	log.SetLevel(OFF)
	log.Error("silenced")
	assert.Empty(t, buf.String())

	log.SetLevel(DEBUG)
	log.Debug("debug with %s", "parameter")
	assert.Contains(t, buf.String(), "debug with parameter")
}

func TestDiscardLogger(t *testing.T) {
	log := NewDiscardLogger()
	assert.NotPanics(t, func() {
		log.Debug("a")
		log.Info("b")
		log.Warn("c")
		log.Error("d")
		log.SetLevel(DEBUG)
	})
}

func TestSetDefault(t *testing.T) {
	original := GetDefault()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(NewLogger(DEBUG, &buf))

	Debug("global %s", "debug")
	Info("global info")
	Warn("global warn")
	Error("global error")

	out := buf.String()
	assert.Contains(t, out, "global debug")
	assert.Contains(t, out, "global info")
	assert.Contains(t, out, "global warn")
	assert.Contains(t, out, "global error")
}
