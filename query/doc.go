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
Package query holds the query document and its validation.

A Query is a flat record: which of its fields may be set depends on
QueryType (a groupBy takes dimensions and having, a topN takes dimension,
metric and threshold, and so on). Validate evaluates a declarative rule
table and cascades into aggregations, post-aggregations, the filter, the
having spec, the granularity and the limit spec, qualifying nested findings
with their path:

	errs := q.Validate()
	errs.On("aggregations[0].fieldName") // ["may not be blank"]

Marshal produces the wire JSON; it never fails because a document is
invalid. Schema exports the JSON Schema of the document.
*/
package query
