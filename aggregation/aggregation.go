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

// Package aggregation describes the aggregations of a query: a flat record
// whose legal fields depend on its type.
package aggregation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rulego/druidql/filter"
)

// Type is the closed set of aggregation types.
type Type string

const (
	Count               Type = "count"
	LongSum             Type = "longSum"
	DoubleSum           Type = "doubleSum"
	Min                 Type = "min"
	Max                 Type = "max"
	Javascript          Type = "javascript"
	Cardinality         Type = "cardinality"
	HyperUnique         Type = "hyperUnique"
	DoubleFirst         Type = "doubleFirst"
	DoubleLast          Type = "doubleLast"
	LongFirst           Type = "longFirst"
	LongLast            Type = "longLast"
	FloatFirst          Type = "floatFirst"
	FloatLast           Type = "floatLast"
	StringFirst         Type = "stringFirst"
	StringLast          Type = "stringLast"
	ThetaSketch         Type = "thetaSketch"
	ApproxHistogramFold Type = "approxHistogramFold"
	Filtered            Type = "filtered"
)

var allTypes = []Type{
	Count, LongSum, DoubleSum, Min, Max, Javascript, Cardinality, HyperUnique,
	DoubleFirst, DoubleLast, LongFirst, LongLast, FloatFirst, FloatLast,
	StringFirst, StringLast, ThetaSketch, ApproxHistogramFold, Filtered,
}

// Types returns every aggregation type.
func Types() []Type {
	return append([]Type(nil), allTypes...)
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	for _, v := range allTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ParseType accepts lowerCamel ("longSum") and snake case ("long_sum")
// spellings.
func ParseType(s string) (Type, error) {
	t := Type(camelize(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown aggregation type %q", s)
	}
	return t, nil
}

func camelize(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	var b strings.Builder
	upper := false
	for i, r := range s {
		switch {
		case r == '_':
			upper = i > 0
		case upper:
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Aggregation is one entry of a query's aggregations list.
type Aggregation struct {
	Type        Type           `json:"type"`
	Name        string         `json:"name,omitempty"`
	FieldName   string         `json:"fieldName,omitempty"`
	FieldNames  []string       `json:"fieldNames,omitempty"`
	FnAggregate string         `json:"fnAggregate,omitempty"`
	FnCombine   string         `json:"fnCombine,omitempty"`
	FnReset     string         `json:"fnReset,omitempty"`
	ByRow       *bool          `json:"byRow,omitempty"`
	Filter      *filter.Filter `json:"filter,omitempty"`
	Aggregator  *Aggregation   `json:"aggregator,omitempty"`
}

// Functions holds the three scripts of a javascript aggregation.
type Functions struct {
	Aggregate string `json:"aggregate" yaml:"aggregate"`
	Combine   string `json:"combine" yaml:"combine"`
	Reset     string `json:"reset" yaml:"reset"`
}

// New builds a single-column aggregation whose name is also its column.
func New(t Type, metric string) *Aggregation {
	return &Aggregation{Type: t, Name: metric, FieldName: metric}
}

// NewCardinality counts distinct combinations of dimensions.
func NewCardinality(name string, dimensions []string, byRow bool) *Aggregation {
	return &Aggregation{Type: Cardinality, Name: name, FieldNames: dimensions, ByRow: &byRow}
}

// NewJavascript builds a scripted aggregation over columns.
func NewJavascript(name string, columns []string, fns Functions) *Aggregation {
	return &Aggregation{
		Type:        Javascript,
		Name:        name,
		FieldNames:  columns,
		FnAggregate: fns.Aggregate,
		FnCombine:   fns.Combine,
		FnReset:     fns.Reset,
	}
}

// NewThetaSketch builds a theta sketch named name over metric.
func NewThetaSketch(metric, name string) *Aggregation {
	return &Aggregation{Type: ThetaSketch, Name: name, FieldName: metric}
}

// NewFiltered applies an aggregation of type t over metric only to rows
// matching f. The inner aggregator carries the name.
func NewFiltered(metric, name string, t Type, f *filter.Filter) *Aggregation {
	return &Aggregation{
		Type:       Filtered,
		Filter:     f,
		Aggregator: &Aggregation{Type: t, Name: name, FieldName: metric},
	}
}

// NewApproxHistogramFold folds the approximate histogram stored in metric
// into raw_<metric>.
func NewApproxHistogramFold(metric string) *Aggregation {
	return &Aggregation{Type: ApproxHistogramFold, Name: "raw_" + metric, FieldName: metric}
}

// OutputName is the name the aggregation's result is known by. Filtered
// aggregations without a name of their own report their aggregator's.
func (a *Aggregation) OutputName() string {
	if a == nil {
		return ""
	}
	if a.Name == "" && a.Type == Filtered {
		return a.Aggregator.OutputName()
	}
	return a.Name
}
