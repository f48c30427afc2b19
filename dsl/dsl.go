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
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// Canonical operator spellings. expr-lang accepts both the symbolic and the
// keyword form of the boolean operators.
const (
	OpAnd = "&&"
	OpOr  = "||"
	OpNot = "!"
)

// Parse runs expr-lang's parser over src and returns the root node.
// No type checking happens here: every identifier is a free reference.
func Parse(grammar, src string) (ast.Node, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &ParseError{Type: ErrorTypeSyntax, Grammar: grammar, Message: "empty expression"}
	}
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, &ParseError{
			Type:       ErrorTypeSyntax,
			Grammar:    grammar,
			Message:    err.Error(),
			Expression: src,
			cause:      err,
		}
	}
	return tree.Node, nil
}

// Op normalizes operator keywords to their symbolic form.
func Op(op string) string {
	switch op {
	case "and":
		return OpAnd
	case "or":
		return OpOr
	case "not":
		return OpNot
	}
	return op
}

// Identifier returns the name referenced by node. Dotted member access
// (`geo.country`) is joined back into a single name.
func Identifier(node ast.Node) (string, bool) {
	switch n := node.(type) {
	case *ast.IdentifierNode:
		return n.Value, true
	case *ast.ChainNode:
		return Identifier(n.Node)
	case *ast.MemberNode:
		parent, ok := Identifier(n.Node)
		if !ok {
			return "", false
		}
		prop, ok := n.Property.(*ast.StringNode)
		if !ok {
			return "", false
		}
		return parent + "." + prop.Value, true
	}
	return "", false
}

// Literal returns the Go value of a scalar literal node. Unary minus over a
// numeric literal is folded.
func Literal(node ast.Node) (interface{}, bool) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return n.Value, true
	case *ast.FloatNode:
		return n.Value, true
	case *ast.StringNode:
		return n.Value, true
	case *ast.BoolNode:
		return n.Value, true
	case *ast.NilNode:
		return nil, true
	case *ast.UnaryNode:
		v, ok := Literal(n.Node)
		if !ok {
			return nil, false
		}
		switch n.Operator {
		case "-":
			switch x := v.(type) {
			case int:
				return -x, true
			case float64:
				return -x, true
			}
		case "+":
			switch v.(type) {
			case int, float64:
				return v, true
			}
		}
	}
	return nil, false
}

// Number returns the numeric value of a literal node as float64.
func Number(node ast.Node) (float64, bool) {
	v, ok := Literal(node)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case int:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// List returns the elements of an array literal, or the node itself as a
// one-element list when it is not an array.
func List(node ast.Node) []ast.Node {
	if arr, ok := node.(*ast.ArrayNode); ok {
		return arr.Nodes
	}
	return []ast.Node{node}
}

// Call returns the callee name and arguments of a function call node.
func Call(node ast.Node) (string, []ast.Node, bool) {
	call, ok := node.(*ast.CallNode)
	if !ok {
		return "", nil, false
	}
	name, ok := Identifier(call.Callee)
	if !ok {
		return "", nil, false
	}
	return name, call.Arguments, true
}
