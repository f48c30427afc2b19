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

// Filter types understood by the engine.
const (
	TypeSelector   = "selector"
	TypeNot        = "not"
	TypeAnd        = "and"
	TypeOr         = "or"
	TypeJavascript = "javascript"
	TypeRegex      = "regex"
	TypeSpatial    = "spatial"
)

// Spatial bound types.
const (
	BoundRadius      = "radius"
	BoundRectangular = "rectangular"
)

// Filter is a node of the filter tree. Type selects the variant and which
// of the remaining fields are meaningful:
//
//	selector    Dimension, Value
//	regex       Dimension, Pattern
//	javascript  Dimension, Function
//	spatial     Dimension, Bound
//	not         Field
//	and / or    Fields
type Filter struct {
	Type      string      `json:"type"`
	Dimension string      `json:"dimension,omitempty"`
	Value     interface{} `json:"value,omitempty"`
	Pattern   string      `json:"pattern,omitempty"`
	Function  string      `json:"function,omitempty"`
	Bound     *Bound      `json:"bound,omitempty"`
	Field     *Filter     `json:"field,omitempty"`
	Fields    []*Filter   `json:"fields,omitempty"`
}

// Bound is the shape of a spatial filter.
type Bound struct {
	Type      string    `json:"type"`
	Coords    []float64 `json:"coords,omitempty"`
	Radius    float64   `json:"radius,omitempty"`
	MinCoords []float64 `json:"minCoords,omitempty"`
	MaxCoords []float64 `json:"maxCoords,omitempty"`
}

// Selector matches rows whose dimension equals value.
func Selector(dimension string, value interface{}) *Filter {
	return &Filter{Type: TypeSelector, Dimension: dimension, Value: value}
}

// Regex matches rows whose dimension matches pattern.
func Regex(dimension, pattern string) *Filter {
	return &Filter{Type: TypeRegex, Dimension: dimension, Pattern: pattern}
}

// Javascript matches rows for which fn returns true. fn is stored verbatim.
func Javascript(dimension, fn string) *Filter {
	return &Filter{Type: TypeJavascript, Dimension: dimension, Function: fn}
}

// Spatial matches rows whose spatial dimension lies within bound.
func Spatial(dimension string, bound *Bound) *Filter {
	return &Filter{Type: TypeSpatial, Dimension: dimension, Bound: bound}
}

// Radius is a circular bound around coords.
func Radius(coords []float64, radius float64) *Bound {
	return &Bound{Type: BoundRadius, Coords: coords, Radius: radius}
}

// Rectangular is an axis aligned box between minCoords and maxCoords.
func Rectangular(minCoords, maxCoords []float64) *Bound {
	return &Bound{Type: BoundRectangular, MinCoords: minCoords, MaxCoords: maxCoords}
}

// Not negates f.
func Not(f *Filter) *Filter {
	return &Filter{Type: TypeNot, Field: f}
}

// And combines filters. Operands that are already `and` nodes have their
// children spliced in, so `and` never directly contains `and`. Nil operands
// are skipped.
func And(filters ...*Filter) *Filter {
	return combine(TypeAnd, filters)
}

// Or combines filters with the same flattening rule as And.
func Or(filters ...*Filter) *Filter {
	return combine(TypeOr, filters)
}

func combine(typ string, filters []*Filter) *Filter {
	fields := make([]*Filter, 0, len(filters))
	for _, f := range filters {
		if f == nil {
			continue
		}
		if f.Type == typ {
			fields = append(fields, f.Fields...)
		} else {
			fields = append(fields, f)
		}
	}
	return &Filter{Type: typ, Fields: fields}
}

// And returns f AND o.
func (f *Filter) And(o *Filter) *Filter {
	return And(f, o)
}

// Or returns f OR o.
func (f *Filter) Or(o *Filter) *Filter {
	return Or(f, o)
}

// Not returns the negation of f.
func (f *Filter) Not() *Filter {
	return Not(f)
}

// Chain combines a previously set filter with next. It is how successive
// filter calls on a builder accumulate: a nil prev yields next unchanged.
func Chain(prev, next *Filter) *Filter {
	switch {
	case prev == nil:
		return next
	case next == nil:
		return prev
	}
	return And(prev, next)
}

// Dimensions returns the distinct dimensions referenced by the tree in
// depth-first order.
func (f *Filter) Dimensions() []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(*Filter)
	walk = func(n *Filter) {
		if n == nil {
			return
		}
		if n.Dimension != "" && !seen[n.Dimension] {
			seen[n.Dimension] = true
			out = append(out, n.Dimension)
		}
		walk(n.Field)
		for _, c := range n.Fields {
			walk(c)
		}
	}
	walk(f)
	return out
}
