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

package aggregation

import (
	"github.com/rulego/druidql/script"
	"github.com/rulego/druidql/validation"
)

var (
	fieldNameTypes = []Type{
		Count, LongSum, DoubleSum, Min, Max, HyperUnique,
		DoubleFirst, DoubleLast, LongFirst, LongLast, FloatFirst, FloatLast,
		StringFirst, StringLast, ThetaSketch, ApproxHistogramFold,
	}
	fieldNamesTypes = []Type{Javascript, Cardinality}
	fnTypes         = []Type{Javascript}
	byRowTypes      = []Type{Cardinality}
	filteredTypes   = []Type{Filtered}
)

var rules validation.Table[*Aggregation]

func init() {
	var named []Type
	for _, t := range allTypes {
		if t != Filtered {
			named = append(named, t)
		}
	}

	rules = validation.Table[*Aggregation]{
		Discriminator: func(a *Aggregation) string { return string(a.Type) },
		Rules: []validation.Rule[*Aggregation]{
			{
				Field: "type",
				Check: func(a *Aggregation, field string, errs *validation.Errors) {
					if a.Type == "" {
						errs.Add(field, validation.MsgBlank)
						return
					}
					validation.OneOf(func(a *Aggregation) string { return string(a.Type) }, names(allTypes)...)(a, field, errs)
				},
			},
			{
				Field: "name",
				Types: names(named),
				Check: validation.NotBlank(func(a *Aggregation) string { return a.Name }),
			},
			{
				Field:   "fieldName",
				Types:   names(fieldNameTypes),
				Present: func(a *Aggregation) bool { return a.FieldName != "" },
				Check:   validation.NotBlank(func(a *Aggregation) string { return a.FieldName }),
			},
			{
				Field:   "fieldNames",
				Types:   names(fieldNamesTypes),
				Present: func(a *Aggregation) bool { return a.FieldNames != nil },
				Check: func(a *Aggregation, field string, errs *validation.Errors) {
					if len(a.FieldNames) == 0 {
						errs.Add(field, "must be a list of field names")
						return
					}
					for i, n := range a.FieldNames {
						if n == "" {
							errs.Add(validation.Index(field, i), validation.MsgBlank)
						}
					}
				},
			},
			fnRule("fnAggregate", func(a *Aggregation) string { return a.FnAggregate }),
			fnRule("fnCombine", func(a *Aggregation) string { return a.FnCombine }),
			fnRule("fnReset", func(a *Aggregation) string { return a.FnReset }),
			{
				Field:   "byRow",
				Types:   names(byRowTypes),
				Present: func(a *Aggregation) bool { return a.ByRow != nil },
			},
			{
				Field:   "filter",
				Types:   names(filteredTypes),
				Present: func(a *Aggregation) bool { return a.Filter != nil },
				Check: func(a *Aggregation, field string, errs *validation.Errors) {
					if a.Filter == nil {
						errs.Add(field, validation.MsgBlank)
						return
					}
					errs.Merge(field, a.Filter.Validate())
				},
			},
			{
				Field:   "aggregator",
				Types:   names(filteredTypes),
				Present: func(a *Aggregation) bool { return a.Aggregator != nil },
				Check: func(a *Aggregation, field string, errs *validation.Errors) {
					if a.Aggregator == nil {
						errs.Add(field, validation.MsgBlank)
						return
					}
					errs.Merge(field, a.Aggregator.Validate())
				},
			},
		},
	}
}

func fnRule(field string, get func(*Aggregation) string) validation.Rule[*Aggregation] {
	return validation.Rule[*Aggregation]{
		Field:   field,
		Types:   names(fnTypes),
		Present: func(a *Aggregation) bool { return get(a) != "" },
		Check: func(a *Aggregation, field string, errs *validation.Errors) {
			src := get(a)
			if src == "" {
				errs.Add(field, validation.MsgBlank)
				return
			}
			if err := script.Validate(src); err != nil {
				errs.Add(field, err.Error())
			}
		},
	}
}

func names(types []Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

// Validate checks the aggregation and, for filtered aggregations, its filter
// and inner aggregator.
func (a *Aggregation) Validate() validation.Errors {
	if a == nil {
		return nil
	}
	return rules.Validate(a)
}

// Valid reports whether Validate finds nothing.
func (a *Aggregation) Valid() bool {
	return !a.Validate().HasErrors()
}

// Applicable reports whether field may be set on an aggregation of type t.
func Applicable(field string, t Type) bool {
	return rules.Applicable(field, string(t))
}

// Fields lists the fields governed by type.
func Fields() []string {
	return rules.Fields()
}
