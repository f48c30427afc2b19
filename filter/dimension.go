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

package filter

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"

	"github.com/rulego/druidql/script"
)

// Hash filter modes.
const (
	ModeIn  = "in"
	ModeNin = "nin"
)

// ErrUnsupportedMode is returned by FromMap for modes other than in / nin.
var ErrUnsupportedMode = errors.New("unsupported filter mode")

// ErrEmptyValues is returned by FromMap when a key maps to an empty list.
var ErrEmptyValues = errors.New("empty value list")

// DimensionFilter builds filters bound to one dimension.
type DimensionFilter struct {
	name string
}

// Dimension returns a builder for filters on the named dimension.
func Dimension(name string) *DimensionFilter {
	return &DimensionFilter{name: name}
}

// Context is handed to filter callbacks. Every dimension is reachable
// through Dim, so a callback reads like the condition it describes:
//
//	func(c filter.Context) *filter.Filter {
//		return c.Dim("a").Eq(1).And(c.Dim("b").Neq(2))
//	}
type Context struct{}

// Dim returns a builder for filters on the named dimension.
func (Context) Dim(name string) *DimensionFilter {
	return Dimension(name)
}

// Name returns the bound dimension.
func (d *DimensionFilter) Name() string {
	return d.name
}

// Eq matches value exactly.
func (d *DimensionFilter) Eq(value interface{}) *Filter {
	return Selector(d.name, value)
}

// Neq is NOT Eq.
func (d *DimensionFilter) Neq(value interface{}) *Filter {
	return Not(d.Eq(value))
}

// In matches any of values. Scalars become selectors and *regexp.Regexp
// values become regex filters, combined with OR. A single value (including
// a single pattern) is returned without the OR wrapper. A lone slice
// argument is expanded into its elements. With no values the result is an
// OR without fields, which Validate reports.
func (d *DimensionFilter) In(values ...interface{}) *Filter {
	values = expand(values)
	if len(values) == 1 {
		return d.match(values[0])
	}
	fields := make([]*Filter, 0, len(values))
	for _, v := range values {
		fields = append(fields, d.match(v))
	}
	return &Filter{Type: TypeOr, Fields: fields}
}

// Nin matches none of values: AND over the negation of each match. Like In,
// an empty list yields an AND without fields and is left to Validate.
func (d *DimensionFilter) Nin(values ...interface{}) *Filter {
	values = expand(values)
	if len(values) == 1 {
		return Not(d.match(values[0]))
	}
	fields := make([]*Filter, 0, len(values))
	for _, v := range values {
		fields = append(fields, Not(d.match(v)))
	}
	return &Filter{Type: TypeAnd, Fields: fields}
}

// Regexp matches pattern.
func (d *DimensionFilter) Regexp(pattern string) *Filter {
	return Regex(d.name, pattern)
}

// Javascript stores src verbatim as the filter function.
func (d *DimensionFilter) Javascript(src string) *Filter {
	return Javascript(d.name, src)
}

// InCirc matches points within radius of center.
func (d *DimensionFilter) InCirc(center []float64, radius float64) *Filter {
	return Spatial(d.name, Radius(center, radius))
}

// InRec matches points inside the rectangle spanned by minCoords and maxCoords.
func (d *DimensionFilter) InRec(minCoords, maxCoords []float64) *Filter {
	return Spatial(d.name, Rectangular(minCoords, maxCoords))
}

// Gt, Gte, Lt and Lte have no native selector; they emit a javascript
// filter comparing the dimension against the literal.

func (d *DimensionFilter) Gt(value interface{}) *Filter {
	return d.compare(script.OpGreater, value)
}

func (d *DimensionFilter) Gte(value interface{}) *Filter {
	return d.compare(script.OpGreaterEqual, value)
}

func (d *DimensionFilter) Lt(value interface{}) *Filter {
	return d.compare(script.OpLess, value)
}

func (d *DimensionFilter) Lte(value interface{}) *Filter {
	return d.compare(script.OpLessEqual, value)
}

func (d *DimensionFilter) compare(op string, value interface{}) *Filter {
	return Javascript(d.name, script.Comparison(d.name, op, value))
}

func (d *DimensionFilter) match(v interface{}) *Filter {
	if re, ok := v.(*regexp.Regexp); ok {
		return Regex(d.name, re.String())
	}
	return Selector(d.name, v)
}

// expand flattens a lone slice or array argument. Strings and byte slices
// are values, not lists.
func expand(values []interface{}) []interface{} {
	if len(values) != 1 || values[0] == nil {
		return values
	}
	rv := reflect.ValueOf(values[0])
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return values
	}
	if _, isBytes := values[0].([]byte); isBytes {
		return values
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// FromMap builds one filter per key and ANDs them. Keys are processed in
// sorted order so the result is deterministic. mode is ModeIn (also the
// default for "") or ModeNin; a slice value yields In / Nin over its
// elements, a scalar yields Eq / Neq. An empty slice value fails with
// ErrEmptyValues.
func FromMap(values map[string]interface{}, mode string) (*Filter, error) {
	var build func(d *DimensionFilter, v interface{}) *Filter
	switch mode {
	case "", ModeIn:
		build = func(d *DimensionFilter, v interface{}) *Filter { return d.In(v) }
	case ModeNin:
		build = func(d *DimensionFilter, v interface{}) *Filter { return d.Nin(v) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}
	if len(values) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var result *Filter
	for _, k := range keys {
		v := values[k]
		if len(expand([]interface{}{v})) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyValues, k)
		}
		result = Chain(result, build(Dimension(k), v))
	}
	return result, nil
}
