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

package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rulego/druidql/utils/timex"
)

var (
	ErrIntervalFormat = errors.New("must consist of two ISO8601 dates separated by /")
	ErrIntervalDate   = errors.New("must consist of valid ISO8601 dates")
	ErrIntervalOrder  = errors.New("first date needs to be < second date")
)

// FormatInterval renders [from, to] as "start/end".
func FormatInterval(from, to time.Time) string {
	return timex.FormatISO8601(from) + "/" + timex.FormatISO8601(to)
}

// NormalizeInterval parses two ISO-8601 strings, possibly of reduced
// precision, and renders them as a full interval.
func NormalizeInterval(from, to string) (string, error) {
	start, err := timex.ParseISO8601(from)
	if err != nil {
		return "", fmt.Errorf("interval start: %w", err)
	}
	end, err := timex.ParseISO8601(to)
	if err != nil {
		return "", fmt.Errorf("interval end: %w", err)
	}
	return FormatInterval(start, end), nil
}

// ParseInterval splits and parses "start/end". The returned error is one of
// ErrIntervalFormat, ErrIntervalDate or ErrIntervalOrder.
func ParseInterval(s string) (time.Time, time.Time, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, ErrIntervalFormat
	}
	start, err := timex.ParseISO8601(parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, ErrIntervalDate
	}
	end, err := timex.ParseISO8601(parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, ErrIntervalDate
	}
	if !start.Before(end) {
		return start, end, ErrIntervalOrder
	}
	return start, end, nil
}
