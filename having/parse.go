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

import (
	"github.com/expr-lang/expr/ast"
	"github.com/rulego/druidql/dsl"
)

const grammar = "having"

// Parse translates a text expression such as `a > 100 && b != 3` into a
// having tree. Identifiers name aggregations; supported operators are
// ==, !=, >, <, &&, ||, ! (and their keyword forms).
func Parse(src string) (*Having, error) {
	node, err := dsl.Parse(grammar, src)
	if err != nil {
		return nil, err
	}
	h, err := translate(node)
	if err != nil {
		return nil, dsl.Wrap(src, err)
	}
	return h, nil
}

func translate(node ast.Node) (*Having, error) {
	switch n := node.(type) {
	case *ast.UnaryNode:
		if dsl.Op(n.Operator) != dsl.OpNot {
			return nil, dsl.Unsupported(grammar, n, "unary operator %q", n.Operator)
		}
		inner, err := translate(n.Node)
		if err != nil {
			return nil, err
		}
		return Not(inner), nil
	case *ast.BinaryNode:
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
		case "==", "!=", ">", "<":
			return comparison(n, op)
		default:
			return nil, dsl.Unsupported(grammar, n, "operator %q", n.Operator)
		}
	}
	return nil, dsl.Unsupported(grammar, node, "expression is not a condition")
}

func comparison(n *ast.BinaryNode, op string) (*Having, error) {
	name, ok := dsl.Identifier(n.Left)
	valueNode := n.Right
	if !ok {
		if name, ok = dsl.Identifier(n.Right); !ok {
			return nil, dsl.Unsupported(grammar, n, "comparison must reference an aggregation")
		}
		valueNode = n.Left
		switch op {
		case ">":
			op = "<"
		case "<":
			op = ">"
		}
	}
	value, ok := dsl.Literal(valueNode)
	if !ok {
		return nil, dsl.Unsupported(grammar, valueNode, "comparison operand must be a literal")
	}
	a := Aggregation(name)
	switch op {
	case "==":
		return a.EqualTo(value), nil
	case "!=":
		return a.NotEqualTo(value), nil
	case ">":
		return a.GreaterThan(value), nil
	default:
		return a.LessThan(value), nil
	}
}
