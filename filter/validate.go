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

package filter

import (
	"github.com/rulego/druidql/script"
	"github.com/rulego/druidql/validation"
)

var knownTypes = []string{TypeSelector, TypeNot, TypeAnd, TypeOr, TypeJavascript, TypeRegex, TypeSpatial}

// rules is assigned in init because the nested checks call Validate, which
// reads rules.
var rules validation.Table[*Filter]

func init() {
	rules = validation.Table[*Filter]{
		Discriminator: func(f *Filter) string { return f.Type },
		Rules: []validation.Rule[*Filter]{
			{
				Field: "type",
				Check: func(f *Filter, field string, errs *validation.Errors) {
					for _, t := range knownTypes {
						if f.Type == t {
							return
						}
					}
					errs.Addf(field, "%q is not a valid filter type", f.Type)
				},
			},
			{
				Field:   "dimension",
				Types:   []string{TypeSelector, TypeJavascript, TypeRegex, TypeSpatial},
				Present: func(f *Filter) bool { return f.Dimension != "" },
				Check:   validation.NotBlank(func(f *Filter) string { return f.Dimension }),
			},
			{
				Field:   "value",
				Types:   []string{TypeSelector},
				Present: func(f *Filter) bool { return f.Value != nil },
			},
			{
				Field:   "pattern",
				Types:   []string{TypeRegex},
				Present: func(f *Filter) bool { return f.Pattern != "" },
				Check:   validation.NotBlank(func(f *Filter) string { return f.Pattern }),
			},
			{
				Field:   "function",
				Types:   []string{TypeJavascript},
				Present: func(f *Filter) bool { return f.Function != "" },
				Check: func(f *Filter, field string, errs *validation.Errors) {
					if f.Function == "" {
						errs.Add(field, validation.MsgBlank)
						return
					}
					if err := script.Validate(f.Function); err != nil {
						errs.Add(field, err.Error())
					}
				},
			},
			{
				Field:   "bound",
				Types:   []string{TypeSpatial},
				Present: func(f *Filter) bool { return f.Bound != nil },
				Check: func(f *Filter, field string, errs *validation.Errors) {
					if f.Bound == nil {
						errs.Add(field, validation.MsgBlank)
						return
					}
					errs.Merge(field, f.Bound.Validate())
				},
			},
			{
				Field:   "field",
				Types:   []string{TypeNot},
				Present: func(f *Filter) bool { return f.Field != nil },
				Check: func(f *Filter, field string, errs *validation.Errors) {
					if f.Field == nil {
						errs.Add(field, validation.MsgBlank)
						return
					}
					errs.Merge(field, f.Field.Validate())
				},
			},
			{
				Field:   "fields",
				Types:   []string{TypeAnd, TypeOr},
				Present: func(f *Filter) bool { return len(f.Fields) > 0 },
				Check: func(f *Filter, field string, errs *validation.Errors) {
					if len(f.Fields) == 0 {
						errs.Add(field, "must be a list with at least one filter")
						return
					}
					for i, child := range f.Fields {
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

// Validate checks the tree and returns every finding. Paths of nested
// findings are qualified, e.g. `fields[1].dimension`.
func (f *Filter) Validate() validation.Errors {
	if f == nil {
		return nil
	}
	return rules.Validate(f)
}

// Valid reports whether Validate finds nothing.
func (f *Filter) Valid() bool {
	return !f.Validate().HasErrors()
}

// Validate checks the bound's coordinates.
func (b *Bound) Validate() validation.Errors {
	var errs validation.Errors
	switch b.Type {
	case BoundRadius:
		if len(b.Coords) == 0 {
			errs.Add("coords", "must be a list of coordinates")
		}
		if b.Radius <= 0 {
			errs.Add("radius", "must be greater than 0")
		}
	case BoundRectangular:
		if len(b.MinCoords) == 0 {
			errs.Add("minCoords", "must be a list of coordinates")
		}
		if len(b.MaxCoords) == 0 {
			errs.Add("maxCoords", "must be a list of coordinates")
		}
		if len(b.MinCoords) != len(b.MaxCoords) {
			errs.Add("maxCoords", "must have as many coordinates as minCoords")
		}
	default:
		errs.Addf("type", "%q is not a valid bound type", b.Type)
	}
	return errs
}
