// Copyright 2021 EMQ Technologies Co., Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAlignTime 测试 AlignTime 函数
func TestAlignTime(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		timeUnit time.Duration
		roundUp  bool
		expected time.Time
	}{
		{
			name:     "向下对齐到分钟",
			input:    time.Date(2024, 1, 1, 12, 35, 45, 0, time.UTC),
			timeUnit: time.Minute,
			expected: time.Date(2024, 1, 1, 12, 35, 0, 0, time.UTC),
		},
		{
			name:     "向上对齐到分钟",
			input:    time.Date(2024, 1, 1, 12, 35, 45, 0, time.UTC),
			timeUnit: time.Minute,
			roundUp:  true,
			expected: time.Date(2024, 1, 1, 12, 36, 0, 0, time.UTC),
		},
		{
			name:     "已对齐不进位",
			input:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			timeUnit: time.Hour,
			roundUp:  true,
			expected: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AlignTime(tt.input, tt.timeUnit, tt.roundUp)
			assert.True(t, got.Equal(tt.expected), "AlignTime() = %v, want %v", got, tt.expected)
		})
	}
}

func TestStartOfDay(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	got := StartOfDay(time.Date(2024, 3, 5, 0, 30, 0, 0, berlin))
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), got)
}

func TestParseISO8601(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2013-01-26T00", "2013-01-26T00:00:00+00:00"},
		{"2020-01-26T00:15", "2020-01-26T00:15:00+00:00"},
		{"2013-04-23T15:00:00", "2013-04-23T15:00:00+00:00"},
		{"2013-04-23", "2013-04-23T00:00:00+00:00"},
		{"2013-04-23T15:00:00Z", "2013-04-23T15:00:00+00:00"},
		{"2013-04-23T15:00:00+02:00", "2013-04-23T15:00:00+02:00"},
		{"2013-04-23T15:00:00.123Z", "2013-04-23T15:00:00+00:00"},
		{"20130423T150000Z", "2013-04-23T15:00:00+00:00"},
		{" 2013-04-23T15:00 ", "2013-04-23T15:00:00+00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	for _, bad := range []string{"", "yesterday", "2013-13-01", "2013-01-26T25", "2013/01/26"} {
		_, err := ParseISO8601(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatISO8601(t *testing.T) {
	assert.Equal(t, "2024-01-01T12:00:00+00:00", FormatISO8601(time.Date(2024, 1, 1, 12, 0, 0, 999, time.UTC)))
	assert.Equal(t, "2024-01-01T12:00:00-05:00", FormatISO8601(time.Date(2024, 1, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))))
}
