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
Package filter builds Druid filter trees.

A filter is a *Filter node whose Type selects the variant (selector, not,
and, or, javascript, regex, spatial). Nodes are built through a dimension
bound builder:

	f := filter.Dimension("a").In(1, 2, 3).
		And(filter.Dimension("b").Neq("x")).
		And(filter.Dimension("c").Gt(100))

or parsed from a text expression:

	f, err := filter.Parse(`a in [1, 2, 3] && b != "x" && c > 100`)

Combining two nodes of the same combinator flattens their children, so an
`and` never directly contains another `and` (likewise for `or`).
Ordering comparisons have no native selector and become javascript filters
such as `function(c) { return(c > 100); }`.

Validate reports structural problems without failing construction.
*/
package filter
