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

package dsl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr/ast"
)

var (
	// ErrSyntax is matched by errors.Is for expressions that do not parse.
	ErrSyntax = errors.New("syntax error")
	// ErrUnsupported is matched by errors.Is for well-formed expressions that
	// use a construct the grammar cannot translate.
	ErrUnsupported = errors.New("unsupported expression")
)

// ErrorType 定义错误类型
type ErrorType int

const (
	ErrorTypeSyntax ErrorType = iota
	ErrorTypeUnsupported
	ErrorTypeInvalidArgument
)

// ParseError describes why a text expression could not be turned into a node.
type ParseError struct {
	Type       ErrorType
	Grammar    string // filter, having or postagg
	Message    string
	Expression string
	Node       string // Go type of the offending expr-lang node, if any
	cause      error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", e.typeName(), e.Message))
	if e.Grammar != "" {
		b.WriteString(fmt.Sprintf(" in %s expression", e.Grammar))
	}
	if e.Node != "" {
		b.WriteString(fmt.Sprintf(" (found %s)", e.Node))
	}
	if e.Expression != "" {
		b.WriteString(fmt.Sprintf("\nExpression: %s", e.Expression))
	}
	return b.String()
}

func (e *ParseError) typeName() string {
	switch e.Type {
	case ErrorTypeSyntax:
		return "SYNTAX_ERROR"
	case ErrorTypeUnsupported:
		return "UNSUPPORTED"
	case ErrorTypeInvalidArgument:
		return "INVALID_ARGUMENT"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Is maps the error onto the package sentinels.
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrSyntax:
		return e.Type == ErrorTypeSyntax
	case ErrUnsupported:
		return e.Type == ErrorTypeUnsupported || e.Type == ErrorTypeInvalidArgument
	}
	return false
}

func (e *ParseError) Unwrap() error {
	return e.cause
}

// Unsupported reports node as a construct grammar cannot translate.
func Unsupported(grammar string, node ast.Node, format string, args ...interface{}) error {
	return &ParseError{
		Type:    ErrorTypeUnsupported,
		Grammar: grammar,
		Message: fmt.Sprintf(format, args...),
		Node:    fmt.Sprintf("%T", node),
	}
}

// InvalidArgument reports a call whose arguments have the wrong shape.
func InvalidArgument(grammar, fn string, format string, args ...interface{}) error {
	return &ParseError{
		Type:    ErrorTypeInvalidArgument,
		Grammar: grammar,
		Message: fmt.Sprintf("%s(): ", fn) + fmt.Sprintf(format, args...),
	}
}

// Wrap attaches the source expression to err if it is a ParseError.
func Wrap(src string, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Expression == "" {
		pe.Expression = src
	}
	return err
}
