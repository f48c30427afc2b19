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
package postagg

import (
	"github.com/rulego/druidql/script"
	"github.com/rulego/druidql/validation"
)

var histogramTypes = []string{
	HistogramEqualBuckets, HistogramBuckets, HistogramCustomBuckets,
	HistogramMin, HistogramMax, HistogramQuantile, HistogramQuantiles,
}

var rules validation.Table[*PostAggregation]

func init() {
	types := append([]string{
		TypeFieldAccess, TypeConstant, TypeArithmetic, TypeJavascript,
		TypeHyperUniqueCardinality, TypeThetaSketchEstimate, TypeThetaSketchSetOp,
	}, histogramTypes...)

	rules = validation.Table[*PostAggregation]{
		Discriminator: func(p *PostAggregation) string { return p.Type },
		Rules: []validation.Rule[*PostAggregation]{
			{
				Field: "type",
				Check: func(p *PostAggregation, field string, errs *validation.Errors) {
					if p.Type == "" {
						errs.Add(field, validation.MsgBlank)
						return
					}
					validation.OneOf(func(p *PostAggregation) string { return p.Type }, types...)(p, field, errs)
				},
			},
			{
				Field:   "fn",
				Types:   []string{TypeArithmetic},
				Present: func(p *PostAggregation) bool { return p.Fn != "" },
				Check: validation.All(
					validation.NotBlank(func(p *PostAggregation) string { return p.Fn }),
					validation.OneOf(func(p *PostAggregation) string { return p.Fn },
						FnAdd, FnSub, FnMul, FnDiv, FnQuotient),
				),
			},
			{
				Field:   "func",
				Types:   []string{TypeThetaSketchSetOp},
				Present: func(p *PostAggregation) bool { return p.Func != "" },
				Check: validation.All(
					validation.NotBlank(func(p *PostAggregation) string { return p.Func }),
					validation.OneOf(func(p *PostAggregation) string { return p.Func },
						FuncUnion, FuncIntersect, FuncNot),
				),
			},
			{
				Field:   "fieldName",
				Types:   append([]string{TypeFieldAccess, TypeHyperUniqueCardinality}, histogramTypes...),
				Present: func(p *PostAggregation) bool { return p.FieldName != "" },
				Check:   validation.NotBlank(func(p *PostAggregation) string { return p.FieldName }),
			},
			{
				Field:   "fieldNames",
				Types:   []string{TypeJavascript},
				Present: func(p *PostAggregation) bool { return len(p.FieldNames) > 0 },
				Check: validation.NonEmpty(func(p *PostAggregation) int { return len(p.FieldNames) },
					"must be a list with at least one field name"),
			},
			{
				Field:   "function",
				Types:   []string{TypeJavascript},
				Present: func(p *PostAggregation) bool { return p.Function != "" },
				Check: func(p *PostAggregation, field string, errs *validation.Errors) {
					if err := script.Validate(p.Function); err != nil {
						errs.Add(field, err.Error())
					}
				},
			},
			{
				Field:   "value",
				Types:   []string{TypeConstant},
				Present: func(p *PostAggregation) bool { return p.Value != nil },
				Check: func(p *PostAggregation, field string, errs *validation.Errors) {
					if p.Value == nil {
						errs.Add(field, validation.MsgRequired)
					}
				},
			},
			{
				Field:   "fields",
				Types:   []string{TypeArithmetic, TypeThetaSketchSetOp},
				Present: func(p *PostAggregation) bool { return len(p.Fields) > 0 },
				Check: func(p *PostAggregation, field string, errs *validation.Errors) {
					switch {
					case p.Type == TypeArithmetic && len(p.Fields) != 2:
						errs.Add(field, "must contain exactly two operands")
					case len(p.Fields) == 0:
						errs.Add(field, "must be a list with at least one field")
					}
					cascade(p.Fields, field, errs)
				},
			},
			{
				Field:   "field",
				Types:   []string{TypeThetaSketchEstimate},
				Present: func(p *PostAggregation) bool { return p.Field != nil },
				Check: func(p *PostAggregation, field string, errs *validation.Errors) {
					if p.Field == nil {
						errs.Add(field, validation.MsgBlank)
						return
					}
					if p.Field.Type != TypeThetaSketchSetOp && p.Field.Type != TypeFieldAccess {
						errs.Addf(field, "must be a %s or %s", TypeThetaSketchSetOp, TypeFieldAccess)
					}
					errs.Merge(field, p.Field.Validate())
				},
			},
			{
				Field:   "numBuckets",
				Types:   []string{HistogramEqualBuckets},
				Present: func(p *PostAggregation) bool { return p.NumBuckets != 0 },
				Check: func(p *PostAggregation, field string, errs *validation.Errors) {
					if p.NumBuckets <= 0 {
						errs.Add(field, "must be greater than 0")
					}
				},
			},
			{
				Field:   "bucketSize",
				Types:   []string{HistogramBuckets},
				Present: func(p *PostAggregation) bool { return p.BucketSize != 0 },
				Check: func(p *PostAggregation, field string, errs *validation.Errors) {
					if p.BucketSize <= 0 {
						errs.Add(field, "must be greater than 0")
					}
				},
			},
			{
				Field:   "offset",
				Types:   []string{HistogramBuckets},
				Present: func(p *PostAggregation) bool { return p.Offset != nil },
			},
			{
				Field:   "breaks",
				Types:   []string{HistogramCustomBuckets},
				Present: func(p *PostAggregation) bool { return len(p.Breaks) > 0 },
				Check: validation.NonEmpty(func(p *PostAggregation) int { return len(p.Breaks) },
					"must be a list with at least one break"),
			},
			{
				Field:   "probability",
				Types:   []string{HistogramQuantile},
				Present: func(p *PostAggregation) bool { return p.Probability != nil },
				Check: func(p *PostAggregation, field string, errs *validation.Errors) {
					if p.Probability == nil {
						errs.Add(field, validation.MsgRequired)
						return
					}
					checkProbability(*p.Probability, field, errs)
				},
			},
			{
				Field:   "probabilities",
				Types:   []string{HistogramQuantiles},
				Present: func(p *PostAggregation) bool { return len(p.Probabilities) > 0 },
				Check: func(p *PostAggregation, field string, errs *validation.Errors) {
					if len(p.Probabilities) == 0 {
						errs.Add(field, "must be a list with at least one probability")
					}
					for i, prob := range p.Probabilities {
						checkProbability(prob, validation.Index(field, i), errs)
					}
				},
			},
		},
	}
}

func cascade(children []*PostAggregation, field string, errs *validation.Errors) {
	for i, c := range children {
		if c == nil {
			errs.Add(validation.Index(field, i), validation.MsgBlank)
			continue
		}
		errs.Merge(validation.Index(field, i), c.Validate())
	}
}

func checkProbability(p float64, field string, errs *validation.Errors) {
	if p < 0 || p > 1 {
		errs.Add(field, "must be between 0 and 1")
	}
}

// Validate checks the tree. Names are not checked here: only the root of a
// tree needs one, which the query validates.
func (p *PostAggregation) Validate() validation.Errors {
	if p == nil {
		return nil
	}
	return rules.Validate(p)
}
