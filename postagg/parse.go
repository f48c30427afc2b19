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
	"github.com/expr-lang/expr/ast"
	"github.com/rulego/druidql/dsl"
)

const grammar = "postagg"

// Parse translates an arithmetic text expression such as `(a / b) * 1000`
// into an unnamed post-aggregation tree. Identifiers and string literals are
// field access, numbers are constants. The calls js("function(..) {..}") and
// hyper_unique(name) are recognised.
func Parse(src string) (*PostAggregation, error) {
	node, err := dsl.Parse(grammar, src)
	if err != nil {
		return nil, err
	}
	p, err := translate(node)
	if err != nil {
		return nil, dsl.Wrap(src, err)
	}
	return p, nil
}

func translate(node ast.Node) (*PostAggregation, error) {
	if name, ok := dsl.Identifier(node); ok {
		return Field(name), nil
	}
	if v, ok := dsl.Literal(node); ok {
		switch x := v.(type) {
		case int, float64:
			return Const(x), nil
		case string:
			return Field(x), nil
		}
		return nil, dsl.Unsupported(grammar, node, "literal %v is not an operand", v)
	}
	switch n := node.(type) {
	case *ast.BinaryNode:
		switch n.Operator {
		case FnAdd, FnSub, FnMul, FnDiv:
		default:
			return nil, dsl.Unsupported(grammar, n, "operator %q", n.Operator)
		}
		left, err := translate(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := translate(n.Right)
		if err != nil {
			return nil, err
		}
		return Arithmetic(n.Operator, left, right), nil
	case *ast.CallNode:
		return call(n)
	}
	return nil, dsl.Unsupported(grammar, node, "expression is not arithmetic")
}

func call(n *ast.CallNode) (*PostAggregation, error) {
	name, args, ok := dsl.Call(n)
	if !ok {
		return nil, dsl.Unsupported(grammar, n, "unknown function")
	}
	str := func() (string, error) {
		if len(args) != 1 {
			return "", dsl.InvalidArgument(grammar, name, "expected 1 argument, got %d", len(args))
		}
		if id, ok := dsl.Identifier(args[0]); ok {
			return id, nil
		}
		if v, ok := dsl.Literal(args[0]); ok {
			if s, ok := v.(string); ok {
				return s, nil
			}
		}
		return "", dsl.InvalidArgument(grammar, name, "argument must be a string")
	}
	switch name {
	case "js", "javascript":
		src, err := str()
		if err != nil {
			return nil, err
		}
		p, err := JS(src)
		if err != nil {
			return nil, dsl.InvalidArgument(grammar, name, "%v", err)
		}
		return p, nil
	case "hyper_unique", "hyperUniqueCardinality":
		field, err := str()
		if err != nil {
			return nil, err
		}
		return HyperUniqueCardinality(field), nil
	}
	return nil, dsl.Unsupported(grammar, n, "unknown function %q", name)
}
