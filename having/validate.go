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

import "github.com/rulego/druidql/validation"

var comparisons = []string{TypeEqualTo, TypeGreaterThan, TypeLessThan}

var rules validation.Table[*Having]

func init() {
	rules = validation.Table[*Having]{
		Discriminator: func(h *Having) string { return h.Type },
		Rules: []validation.Rule[*Having]{
			{
				Field: "type",
				Check: validation.OneOf(func(h *Having) string { return h.Type },
					TypeEqualTo, TypeGreaterThan, TypeLessThan, TypeNot, TypeAnd, TypeOr),
			},
			{
				Field:   "aggregation",
				Types:   comparisons,
				Present: func(h *Having) bool { return h.Aggregation != "" },
				Check:   validation.NotBlank(func(h *Having) string { return h.Aggregation }),
			},
			{
				Field:   "value",
				Types:   comparisons,
				Present: func(h *Having) bool { return h.Value != nil },
				Check: func(h *Having, field string, errs *validation.Errors) {
					if h.Value == nil {
						errs.Add(field, validation.MsgRequired)
					}
				},
			},
			{
				Field:   "havingSpec",
				Types:   []string{TypeNot},
				Present: func(h *Having) bool { return h.HavingSpec != nil },
				Check: func(h *Having, field string, errs *validation.Errors) {
					if h.HavingSpec == nil {
						errs.Add(field, validation.MsgBlank)
						return
					}
					errs.Merge(field, h.HavingSpec.Validate())
				},
			},
			{
				Field:   "havingSpecs",
				Types:   []string{TypeAnd, TypeOr},
				Present: func(h *Having) bool { return len(h.HavingSpecs) > 0 },
				Check: func(h *Having, field string, errs *validation.Errors) {
					if len(h.HavingSpecs) == 0 {
						errs.Add(field, "must be a list with at least one having spec")
						return
					}
					for i, child := range h.HavingSpecs {
						if child == nil {
							errs.Add(validation.Index(field, i), validation.MsgBlank)
							continue
						}
						errs.Merge(validation.Index(field, i), child.Validate())
					}
				},
			},
		},
	}
}

// Validate checks the tree and returns every finding.
func (h *Having) Validate() validation.Errors {
	if h == nil {
		return nil
	}
	return rules.Validate(h)
}
