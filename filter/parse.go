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
	"github.com/expr-lang/expr/ast"
	"github.com/rulego/druidql/dsl"
	"github.com/rulego/druidql/script"
)

const grammar = "filter"

// Parse translates a text expression into a filter tree. Identifiers name
// dimensions:
//
//	a == 1                     selector
//	a != 1                     not(selector)
//	a in [1, 2, 3]             or(selector...)
//	a not in [1, 2]            and(not(selector)...)
//	a matches "[1-9].*"        regex
//	a > 100, a <= "128"        javascript comparison
//	x && y, x || y, !x         and / or / not
//	regex(a, "p"), js(a, "function(a) {...}")
//	in_circ(a, [52.0, 13.0], 10.0), in_rec(a, [10, 20], [30, 40])
func Parse(src string) (*Filter, error) {
	node, err := dsl.Parse(grammar, src)
	if err != nil {
		return nil, err
	}
	f, err := translate(node)
	if err != nil {
		return nil, dsl.Wrap(src, err)
	}
	return f, nil
}

func translate(node ast.Node) (*Filter, error) {
	switch n := node.(type) {
	case *ast.UnaryNode:
		if dsl.Op(n.Operator) != dsl.OpNot {
			return nil, dsl.Unsupported(grammar, n, "unary operator %q", n.Operator)
		}
		if bin, ok := n.Node.(*ast.BinaryNode); ok && bin.Operator == "in" {
			return membership(bin, true)
		}
		inner, err := translate(n.Node)
		if err != nil {
			return nil, err
		}
		return Not(inner), nil
	case *ast.BinaryNode:
		return binary(n)
	case *ast.CallNode:
		return call(n)
	}
	return nil, dsl.Unsupported(grammar, node, "expression is not a condition")
}

func binary(n *ast.BinaryNode) (*Filter, error) {
	switch op := dsl.Op(n.Operator); op {
	case dsl.OpAnd, dsl.OpOr:
		left, err := translate(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := translate(n.Right)
		if err != nil {
			return nil, err
		}
		if op == dsl.OpAnd {
			return left.And(right), nil
		}
		return left.Or(right), nil
	case "in":
		return membership(n, false)
	case "matches":
		dim, ok := dsl.Identifier(n.Left)
		if !ok {
			return nil, dsl.Unsupported(grammar, n.Left, "left side of matches must be a dimension")
		}
		pattern, ok := stringLiteral(n.Right)
		if !ok {
			return nil, dsl.Unsupported(grammar, n.Right, "right side of matches must be a string")
		}
		return Regex(dim, pattern), nil
	case "==", "!=", ">", ">=", "<", "<=":
		dim, value, op, err := comparison(n, op)
		if err != nil {
			return nil, err
		}
		d := Dimension(dim)
		switch op {
		case "==":
			return d.Eq(value), nil
		case "!=":
			return d.Neq(value), nil
		}
		return d.compare(op, value), nil
	default:
		return nil, dsl.Unsupported(grammar, n, "operator %q", n.Operator)
	}
}

// comparison normalizes `literal op dimension` into `dimension op' literal`.
func comparison(n *ast.BinaryNode, op string) (string, interface{}, string, error) {
	if dim, ok := dsl.Identifier(n.Left); ok {
		value, ok := dsl.Literal(n.Right)
		if !ok {
			return "", nil, "", dsl.Unsupported(grammar, n.Right, "right side of %s must be a literal", op)
		}
		return dim, value, op, nil
	}
	if dim, ok := dsl.Identifier(n.Right); ok {
		value, ok := dsl.Literal(n.Left)
		if !ok {
			return "", nil, "", dsl.Unsupported(grammar, n.Left, "left side of %s must be a literal", op)
		}
		return dim, value, flip(op), nil
	}
	return "", nil, "", dsl.Unsupported(grammar, n, "comparison must reference a dimension")
}

func flip(op string) string {
	switch op {
	case script.OpGreater:
		return script.OpLess
	case script.OpGreaterEqual:
		return script.OpLessEqual
	case script.OpLess:
		return script.OpGreater
	case script.OpLessEqual:
		return script.OpGreaterEqual
	}
	return op
}

func membership(n *ast.BinaryNode, negate bool) (*Filter, error) {
	dim, ok := dsl.Identifier(n.Left)
	if !ok {
		return nil, dsl.Unsupported(grammar, n.Left, "left side of in must be a dimension")
	}
	arr, ok := n.Right.(*ast.ArrayNode)
	if !ok {
		return nil, dsl.Unsupported(grammar, n.Right, "right side of in must be a list")
	}
	values := make([]interface{}, 0, len(arr.Nodes))
	for _, item := range arr.Nodes {
		v, ok := dsl.Literal(item)
		if !ok {
			return nil, dsl.Unsupported(grammar, item, "list elements must be literals")
		}
		values = append(values, v)
	}
	if negate {
		return Dimension(dim).Nin(values...), nil
	}
	return Dimension(dim).In(values...), nil
}

func call(n *ast.CallNode) (*Filter, error) {
	name, args, ok := dsl.Call(n)
	if !ok {
		return nil, dsl.Unsupported(grammar, n, "call target must be a name")
	}
	switch name {
	case "regex", "regexp":
		dim, s, err := dimensionAndString(name, args)
		if err != nil {
			return nil, err
		}
		return Regex(dim, s), nil
	case "js", "javascript":
		dim, s, err := dimensionAndString(name, args)
		if err != nil {
			return nil, err
		}
		return Javascript(dim, s), nil
	case "in_circ":
		// in_circ(dim, [lat, lon], radius)
		if len(args) != 3 {
			return nil, dsl.InvalidArgument(grammar, name, "expects 3 arguments, got %d", len(args))
		}
		dim, ok := dsl.Identifier(args[0])
		if !ok {
			return nil, dsl.InvalidArgument(grammar, name, "first argument must be a dimension")
		}
		coords, ok := numbers(args[1])
		if !ok {
			return nil, dsl.InvalidArgument(grammar, name, "coordinates must be a list of numbers")
		}
		radius, ok := dsl.Number(args[2])
		if !ok {
			return nil, dsl.InvalidArgument(grammar, name, "radius must be a number")
		}
		return Dimension(dim).InCirc(coords, radius), nil
	case "in_rec":
		// in_rec(dim, [minX, minY], [maxX, maxY])
		if len(args) != 3 {
			return nil, dsl.InvalidArgument(grammar, name, "expects 3 arguments, got %d", len(args))
		}
		dim, ok := dsl.Identifier(args[0])
		if !ok {
			return nil, dsl.InvalidArgument(grammar, name, "first argument must be a dimension")
		}
		minCoords, ok1 := numbers(args[1])
		maxCoords, ok2 := numbers(args[2])
		if !ok1 || !ok2 {
			return nil, dsl.InvalidArgument(grammar, name, "coordinates must be lists of numbers")
		}
		return Dimension(dim).InRec(minCoords, maxCoords), nil
	}
	return nil, dsl.Unsupported(grammar, n, "unknown function %q", name)
}

func dimensionAndString(fn string, args []ast.Node) (string, string, error) {
	if len(args) != 2 {
		return "", "", dsl.InvalidArgument(grammar, fn, "expects 2 arguments, got %d", len(args))
	}
	dim, ok := dsl.Identifier(args[0])
	if !ok {
		return "", "", dsl.InvalidArgument(grammar, fn, "first argument must be a dimension")
	}
	s, ok := stringLiteral(args[1])
	if !ok {
		return "", "", dsl.InvalidArgument(grammar, fn, "second argument must be a string")
	}
	return dim, s, nil
}

func stringLiteral(node ast.Node) (string, bool) {
	s, ok := node.(*ast.StringNode)
	if !ok {
		return "", false
	}
	return s.Value, true
}

func numbers(node ast.Node) ([]float64, bool) {
	arr, ok := node.(*ast.ArrayNode)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(arr.Nodes))
	for _, item := range arr.Nodes {
		f, ok := dsl.Number(item)
		if !ok {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}
