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

// Package script builds and checks the small javascript function literals
// embedded in filters, aggregations and post-aggregations.
package script

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ErrInvalidScript is returned when a source is not a single function literal.
var ErrInvalidScript = errors.New("invalid javascript function")

// Ordering operators that have no native selector and are emitted as scripts.
const (
	OpGreater      = ">"
	OpGreaterEqual = ">="
	OpLess         = "<"
	OpLessEqual    = "<="
)

var identRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Function is a parsed function literal.
type Function struct {
	Name   string   // empty for anonymous functions
	Params []string // parameter names in declaration order
	Body   string   // text between the outer braces, trimmed
	Source string   // the original source, untouched
}

// IsComparison reports whether op is one of the ordering operators.
func IsComparison(op string) bool {
	switch op {
	case OpGreater, OpGreaterEqual, OpLess, OpLessEqual:
		return true
	}
	return false
}

// Comparison returns the function literal that compares the named
// dimension against operand, e.g. `function(a) { return(a > 100); }`.
// String operands are quoted, numeric and boolean operands are not.
func Comparison(dimension, op string, operand interface{}) string {
	return fmt.Sprintf("function(%s) { return(%s %s %s); }", dimension, dimension, op, Literal(operand))
}

// Literal renders v as a javascript literal.
func Literal(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	case float32, float64:
		return strconv.FormatFloat(cast.ToFloat64(x), 'f', -1, 64)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return cast.ToString(x)
	case fmt.Stringer:
		return strconv.Quote(x.String())
	default:
		return strconv.Quote(fmt.Sprintf("%v", x))
	}
}

// Parse checks that src is a single function literal and extracts its
// parameter list. It is a syntax check only: parentheses must be present,
// a braced body must follow, braces must balance and nothing may trail the
// closing brace.
func Parse(src string) (*Function, error) {
	s := strings.TrimSpace(src)
	if !strings.HasPrefix(s, "function") {
		return nil, fmt.Errorf("%w: missing function keyword", ErrInvalidScript)
	}
	rest := strings.TrimSpace(s[len("function"):])

	open := strings.IndexByte(rest, '(')
	if open < 0 {
		return nil, fmt.Errorf("%w: missing parameter list", ErrInvalidScript)
	}
	name := strings.TrimSpace(rest[:open])
	if name != "" && !identRegex.MatchString(name) {
		return nil, fmt.Errorf("%w: invalid function name %q", ErrInvalidScript, name)
	}
	closing := strings.IndexByte(rest[open:], ')')
	if closing < 0 {
		return nil, fmt.Errorf("%w: unterminated parameter list", ErrInvalidScript)
	}
	closing += open

	params, err := parseParams(rest[open+1 : closing])
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(rest[closing+1:])
	if !strings.HasPrefix(body, "{") {
		return nil, fmt.Errorf("%w: missing function body", ErrInvalidScript)
	}
	end, err := matchBrace(body)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(body[end+1:]) != "" {
		return nil, fmt.Errorf("%w: unexpected text after function body", ErrInvalidScript)
	}

	return &Function{
		Name:   name,
		Params: params,
		Body:   strings.TrimSpace(body[1:end]),
		Source: src,
	}, nil
}

// Validate is Parse without the result.
func Validate(src string) error {
	_, err := Parse(src)
	return err
}

func parseParams(list string) ([]string, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return []string{}, nil
	}
	parts := strings.Split(list, ",")
	params := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if !identRegex.MatchString(p) {
			return nil, fmt.Errorf("%w: invalid parameter %q", ErrInvalidScript, p)
		}
		params = append(params, p)
	}
	return params, nil
}

// matchBrace returns the index of the brace closing body[0]. Braces inside
// string literals and comments are ignored.
func matchBrace(body string) (int, error) {
	depth := 0
	var quote byte
	for i := 0; i < len(body); i++ {
		c := body[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '/':
			if i+1 < len(body) && body[i+1] == '/' {
				nl := strings.IndexByte(body[i:], '\n')
				if nl < 0 {
					return 0, fmt.Errorf("%w: unbalanced braces", ErrInvalidScript)
				}
				i += nl
			} else if i+1 < len(body) && body[i+1] == '*' {
				endComment := strings.Index(body[i+2:], "*/")
				if endComment < 0 {
					return 0, fmt.Errorf("%w: unterminated comment", ErrInvalidScript)
				}
				i += endComment + 3
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	if quote != 0 {
		return 0, fmt.Errorf("%w: unterminated string literal", ErrInvalidScript)
	}
	return 0, fmt.Errorf("%w: unbalanced braces", ErrInvalidScript)
}
