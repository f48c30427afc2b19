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

package validation

import (
	"fmt"
	"io"
	"strings"

	"github.com/rulego/druidql/utils/table"
)

// Common messages shared by the rule tables.
const (
	MsgBlank    = "may not be blank"
	MsgRequired = "is required"
)

// NotSupported builds the message attached to a field that is set on a
// record whose discriminator does not allow it.
func NotSupported(discriminator string) string {
	return fmt.Sprintf("is not supported by type=%s", discriminator)
}

// FieldError is a single validation finding attached to a field path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error 实现 error 接口
func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

// Errors collects the findings of one validation pass. A nil or empty
// Errors means the record is valid.
type Errors []*FieldError

// Add appends a finding for field.
func (e *Errors) Add(field, message string) {
	*e = append(*e, &FieldError{Field: field, Message: message})
}

// Addf appends a formatted finding for field.
func (e *Errors) Addf(field, format string, args ...interface{}) {
	e.Add(field, fmt.Sprintf(format, args...))
}

// Merge copies child findings into e, qualifying every path with prefix.
func (e *Errors) Merge(prefix string, child Errors) {
	for _, fe := range child {
		*e = append(*e, &FieldError{Field: Join(prefix, fe.Field), Message: fe.Message})
	}
}

// HasErrors reports whether at least one finding was recorded.
func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// On returns the messages recorded for exactly field.
func (e Errors) On(field string) []string {
	var out []string
	for _, fe := range e {
		if fe.Field == field {
			out = append(out, fe.Message)
		}
	}
	return out
}

// Fields returns the distinct field paths in first-seen order.
func (e Errors) Fields() []string {
	seen := make(map[string]bool, len(e))
	var out []string
	for _, fe := range e {
		if !seen[fe.Field] {
			seen[fe.Field] = true
			out = append(out, fe.Field)
		}
	}
	return out
}

// Err returns e as an error, or nil when there are no findings.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

// PrintTable writes the findings as a field/message table.
func (e Errors) PrintTable(w io.Writer) {
	rows := make([][]string, 0, len(e))
	for _, fe := range e {
		rows = append(rows, []string{fe.Field, fe.Message})
	}
	table.Fprint(w, []string{"field", "message"}, rows)
}

// Join qualifies a child path with its parent field name.
func Join(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	case strings.HasPrefix(field, "["):
		return prefix + field
	default:
		return prefix + "." + field
	}
}

// Index renders the path of the i-th element of a list field.
func Index(field string, i int) string {
	return fmt.Sprintf("%s[%d]", field, i)
}
