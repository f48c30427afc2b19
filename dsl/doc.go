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

/*
Package dsl is the shared front end of the text expression grammars.

Expressions are parsed with the expr-lang parser and never compiled or run.
Every free identifier is a reference (a dimension for filters, an
aggregation name for having clauses, a field for post-aggregations), so the
filter, having and postagg packages walk the returned expr-lang AST and
translate it into their own nodes:

	node, err := dsl.Parse("filter", `a in [1, 2, 3] && b != "x"`)

Helpers normalize operator keywords (`and` / `&&`), extract identifiers and
literal values, and report untranslatable constructs as *ParseError values
matching ErrSyntax or ErrUnsupported.
*/
package dsl
