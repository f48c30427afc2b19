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
Package having builds having specs for groupBy queries.

	h := having.Aggregation("a").GreaterThan(100).
		And(having.Aggregation("b").NotEqualTo(3))

	h, err := having.Parse(`a > 100 && b != 3`)

`!=` becomes not(equalTo). And and Or flatten like their filter
counterparts; Chain is how successive having calls on one query combine.
*/
package having
