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
Package validation provides the conditional validation engine shared by the
aggregation and query descriptors.

A record kind declares one Table. Each Rule names a field, the
discriminator values for which the field is legal, and the local
constraint applied in that case. Outside that set the field must be
absent:

	var table = validation.Table[*Aggregation]{
		Discriminator: func(a *Aggregation) string { return string(a.Type) },
		Rules: []validation.Rule[*Aggregation]{
			{
				Field:   "fieldName",
				Types:   []string{"longSum", "doubleSum"},
				Present: func(a *Aggregation) bool { return a.FieldName != "" },
				Check:   validation.NotBlank(func(a *Aggregation) string { return a.FieldName }),
			},
		},
	}

Validation never stops early. Nested records report through Errors.Merge,
which qualifies each child path with the containing field:

	errs.Merge(validation.Index("aggregations", 1), agg.Validate())
	// aggregations[1].fieldName may not be blank
*/
package validation
