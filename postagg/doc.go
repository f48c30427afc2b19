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
Package postagg builds post-aggregations: computations over aggregation
results.

Operands are built with Field and Const (or passed as names and numbers)
and combined into binary arithmetic trees. Trees keep their grouping:

	ctr := postagg.Field("a").Div("b").Mul(1000).As("ctr")

	p, err := postagg.Parse("(a / b) * 1000")
	ctr = p.As("ctr")

JS extracts field names from the function's parameter list, ThetaSketch
wraps a set operation in an estimate and Histogram resolves a bucket
strategy through a fixed registry.
*/
package postagg
