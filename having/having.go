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

package having

// Having spec types.
const (
	TypeEqualTo     = "equalTo"
	TypeGreaterThan = "greaterThan"
	TypeLessThan    = "lessThan"
	TypeNot         = "not"
	TypeAnd         = "and"
	TypeOr          = "or"
)

// Having is a node of the having tree.
//
//	equalTo / greaterThan / lessThan  Aggregation, Value
//	not                               HavingSpec
//	and / or                          HavingSpecs
type Having struct {
	Type        string      `json:"type"`
	Aggregation string      `json:"aggregation,omitempty"`
	Value       interface{} `json:"value,omitempty"`
	HavingSpec  *Having     `json:"havingSpec,omitempty"`
	HavingSpecs []*Having   `json:"havingSpecs,omitempty"`
}

// AggregationHaving builds clauses on one aggregation.
type AggregationHaving struct {
	name string
}

// Aggregation returns a builder for clauses on the named aggregation.
func Aggregation(name string) *AggregationHaving {
	return &AggregationHaving{name: name}
}

// Context is handed to having callbacks; Agg names an aggregation.
type Context struct{}

// Agg returns a builder for clauses on the named aggregation.
func (Context) Agg(name string) *AggregationHaving {
	return Aggregation(name)
}

// EqualTo is `name == value`.
func (a *AggregationHaving) EqualTo(value interface{}) *Having {
	return &Having{Type: TypeEqualTo, Aggregation: a.name, Value: value}
}

// NotEqualTo is sugar for Not(EqualTo(value)).
func (a *AggregationHaving) NotEqualTo(value interface{}) *Having {
	return Not(a.EqualTo(value))
}

// GreaterThan is `name > value`.
func (a *AggregationHaving) GreaterThan(value interface{}) *Having {
	return &Having{Type: TypeGreaterThan, Aggregation: a.name, Value: value}
}

// LessThan is `name < value`.
func (a *AggregationHaving) LessThan(value interface{}) *Having {
	return &Having{Type: TypeLessThan, Aggregation: a.name, Value: value}
}

// Not negates h.
func Not(h *Having) *Having {
	return &Having{Type: TypeNot, HavingSpec: h}
}

// And combines clauses, splicing in the children of operands that are
// already `and` nodes.
func And(specs ...*Having) *Having {
	return combine(TypeAnd, specs)
}

// Or combines clauses with the same flattening rule as And.
func Or(specs ...*Having) *Having {
	return combine(TypeOr, specs)
}

func combine(typ string, specs []*Having) *Having {
	out := make([]*Having, 0, len(specs))
	for _, h := range specs {
		if h == nil {
			continue
		}
		if h.Type == typ {
			out = append(out, h.HavingSpecs...)
		} else {
			out = append(out, h)
		}
	}
	return &Having{Type: typ, HavingSpecs: out}
}

func (h *Having) And(o *Having) *Having {
	return And(h, o)
}

func (h *Having) Or(o *Having) *Having {
	return Or(h, o)
}

func (h *Having) Not() *Having {
	return Not(h)
}

// Chain ANDs a clause set by an earlier call with next. A nil receiver
// yields next unchanged.
func (h *Having) Chain(next *Having) *Having {
	switch {
	case h == nil:
		return next
	case next == nil:
		return h
	}
	return And(h, next)
}

// Aggregations returns the distinct aggregation names referenced by the tree.
func (h *Having) Aggregations() []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(*Having)
	walk = func(n *Having) {
		if n == nil {
			return
		}
		if n.Aggregation != "" && !seen[n.Aggregation] {
			seen[n.Aggregation] = true
			out = append(out, n.Aggregation)
		}
		walk(n.HavingSpec)
		for _, c := range n.HavingSpecs {
			walk(c)
		}
	}
	walk(h)
	return out
}
