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

package postagg

import (
	"fmt"

	"github.com/rulego/druidql/script"
)

// Post-aggregation types.
const (
	TypeFieldAccess            = "fieldAccess"
	TypeConstant               = "constant"
	TypeArithmetic             = "arithmetic"
	TypeJavascript             = "javascript"
	TypeHyperUniqueCardinality = "hyperUniqueCardinality"
	TypeThetaSketchEstimate    = "thetaSketchEstimate"
	TypeThetaSketchSetOp       = "thetaSketchSetOp"
)

// Arithmetic functions.
const (
	FnAdd      = "+"
	FnSub      = "-"
	FnMul      = "*"
	FnDiv      = "/"
	FnQuotient = "quotient"
)

// Theta sketch set operations.
const (
	FuncUnion     = "UNION"
	FuncIntersect = "INTERSECT"
	FuncNot       = "NOT"
)

// PostAggregation is a node of the post-aggregation tree. Operands carry no
// name; the root is named once through As.
type PostAggregation struct {
	Type       string             `json:"type"`
	Name       string             `json:"name,omitempty"`
	Fn         string             `json:"fn,omitempty"`
	Func       string             `json:"func,omitempty"`
	FieldName  string             `json:"fieldName,omitempty"`
	FieldNames []string           `json:"fieldNames,omitempty"`
	Function   string             `json:"function,omitempty"`
	Value      interface{}        `json:"value,omitempty"`
	Fields     []*PostAggregation `json:"fields,omitempty"`
	Field      *PostAggregation   `json:"field,omitempty"`

	// histogram bucket strategies
	NumBuckets    int       `json:"numBuckets,omitempty"`
	BucketSize    float64   `json:"bucketSize,omitempty"`
	Offset        *float64  `json:"offset,omitempty"`
	Breaks        []float64 `json:"breaks,omitempty"`
	Probability   *float64  `json:"probability,omitempty"`
	Probabilities []float64 `json:"probabilities,omitempty"`
}

// Field references an aggregation result by name.
func Field(name string) *PostAggregation {
	return &PostAggregation{Type: TypeFieldAccess, FieldName: name}
}

// Const is a constant operand.
func Const(value interface{}) *PostAggregation {
	return &PostAggregation{Type: TypeConstant, Value: value}
}

// HyperUniqueCardinality reads the cardinality of a hyperUnique aggregation.
func HyperUniqueCardinality(fieldName string) *PostAggregation {
	return &PostAggregation{Type: TypeHyperUniqueCardinality, FieldName: fieldName}
}

// Arithmetic combines exactly two operands. Operands may be nodes, names
// (field access) or numbers (constants).
func Arithmetic(fn string, left, right interface{}) *PostAggregation {
	return &PostAggregation{
		Type:   TypeArithmetic,
		Fn:     fn,
		Fields: []*PostAggregation{Operand(left), Operand(right)},
	}
}

func Add(left, right interface{}) *PostAggregation { return Arithmetic(FnAdd, left, right) }
func Sub(left, right interface{}) *PostAggregation { return Arithmetic(FnSub, left, right) }
func Mul(left, right interface{}) *PostAggregation { return Arithmetic(FnMul, left, right) }
func Div(left, right interface{}) *PostAggregation { return Arithmetic(FnDiv, left, right) }

// Quotient divides without the zero guard of Div.
func Quotient(left, right interface{}) *PostAggregation {
	return Arithmetic(FnQuotient, left, right)
}

func (p *PostAggregation) Add(o interface{}) *PostAggregation { return Add(p, o) }
func (p *PostAggregation) Sub(o interface{}) *PostAggregation { return Sub(p, o) }
func (p *PostAggregation) Mul(o interface{}) *PostAggregation { return Mul(p, o) }
func (p *PostAggregation) Div(o interface{}) *PostAggregation { return Div(p, o) }

// Operand converts v into a node: nodes pass through, strings become field
// access and anything else a constant.
func Operand(v interface{}) *PostAggregation {
	switch x := v.(type) {
	case *PostAggregation:
		return x
	case string:
		return Field(x)
	default:
		return Const(x)
	}
}

// JS builds a javascript post-aggregation. The parameter list of src gives
// the field names.
func JS(src string) (*PostAggregation, error) {
	fn, err := script.Parse(src)
	if err != nil {
		return nil, err
	}
	return &PostAggregation{Type: TypeJavascript, FieldNames: fn.Params, Function: src}, nil
}

// ThetaSketch estimates the result of a set operation over theta sketch
// aggregations.
func ThetaSketch(name, fn string, fieldNames ...string) *PostAggregation {
	fields := make([]*PostAggregation, 0, len(fieldNames))
	for _, f := range fieldNames {
		fields = append(fields, Field(f))
	}
	return &PostAggregation{
		Type: TypeThetaSketchEstimate,
		Name: name,
		Field: &PostAggregation{
			Type:   TypeThetaSketchSetOp,
			Name:   name + "_sketch",
			Func:   fn,
			Fields: fields,
		},
	}
}

// As binds the output name and returns the named node. The receiver is left
// untouched so an operand can be reused.
func (p *PostAggregation) As(name string) *PostAggregation {
	named := *p
	named.Name = name
	return &named
}

// RequiredFieldNames lists the aggregation names the tree reads, in first
// reference order: field access leaves and javascript parameters.
func (p *PostAggregation) RequiredFieldNames() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	var walk func(*PostAggregation)
	walk = func(n *PostAggregation) {
		if n == nil {
			return
		}
		switch n.Type {
		case TypeFieldAccess:
			add(n.FieldName)
		case TypeJavascript:
			for _, f := range n.FieldNames {
				add(f)
			}
		}
		for _, c := range n.Fields {
			walk(c)
		}
		walk(n.Field)
	}
	walk(p)
	return out
}

func (p *PostAggregation) String() string {
	switch p.Type {
	case TypeFieldAccess:
		return p.FieldName
	case TypeConstant:
		return fmt.Sprintf("%v", p.Value)
	case TypeArithmetic:
		if len(p.Fields) == 2 {
			return fmt.Sprintf("(%s %s %s)", p.Fields[0], p.Fn, p.Fields[1])
		}
	}
	if p.Name != "" {
		return p.Type + ":" + p.Name
	}
	return p.Type
}
