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

package query

import (
	"strings"

	"github.com/rulego/druidql/validation"
)

var (
	granularityTypes  = []Type{Timeseries, Search, GroupBy, Select, TopN}
	dimensionsTypes   = []Type{GroupBy, Select}
	aggregationTypes  = []Type{Timeseries, GroupBy, TopN}
	filterTypes       = []Type{Timeseries, Search, GroupBy, Select, TopN}
	groupByTypes      = []Type{GroupBy}
	searchTypes       = []Type{Search}
	timeBoundaryTypes = []Type{TimeBoundary}
	metadataTypes     = []Type{SegmentMetadata}
	selectTypes       = []Type{Select}
	topNTypes         = []Type{TopN}
)

// Bound values of a timeBoundary query.
const (
	BoundMaxTime = "maxTime"
	BoundMinTime = "minTime"
)

var rules validation.Table[*Query]

func init() {
	rules = validation.Table[*Query]{
		Discriminator: func(q *Query) string { return string(q.QueryType) },
		Rules: []validation.Rule[*Query]{
			{
				Field: "queryType",
				Check: func(q *Query, field string, errs *validation.Errors) {
					if q.QueryType == "" {
						errs.Add(field, validation.MsgBlank)
						return
					}
					validation.OneOf(func(q *Query) string { return string(q.QueryType) }, names(allTypes)...)(q, field, errs)
				},
			},
			{
				Field: "dataSource",
				Check: validation.NotBlank(func(q *Query) string { return q.DataSource }),
			},
			{
				Field: "intervals",
				Check: checkIntervals,
			},
			{
				Field:   "granularity",
				Types:   names(granularityTypes),
				Present: func(q *Query) bool { return q.Granularity != nil },
				Check: func(q *Query, field string, errs *validation.Errors) {
					if q.Granularity == nil {
						errs.Add(field, validation.MsgBlank)
						return
					}
					errs.Merge(field, q.Granularity.Validate())
				},
			},
			{
				Field:   "dimensions",
				Types:   names(dimensionsTypes),
				Present: func(q *Query) bool { return len(q.Dimensions) > 0 },
				Check: func(q *Query, field string, errs *validation.Errors) {
					if len(q.Dimensions) == 0 {
						errs.Add(field, "must be a list with at least one dimension")
						return
					}
					for i, d := range q.Dimensions {
						if d == nil {
							errs.Add(validation.Index(field, i), validation.MsgBlank)
							continue
						}
						errs.Merge(validation.Index(field, i), d.Validate())
					}
				},
			},
			{
				Field:   "aggregations",
				Types:   names(aggregationTypes),
				Present: func(q *Query) bool { return len(q.Aggregations) > 0 },
				Check: func(q *Query, field string, errs *validation.Errors) {
					if len(q.Aggregations) == 0 {
						errs.Add(field, "must be a list with at least one aggregator")
						return
					}
					for i, a := range q.Aggregations {
						errs.Merge(validation.Index(field, i), a.Validate())
					}
				},
			},
			{
				Field:   "postAggregations",
				Types:   names(aggregationTypes),
				Present: func(q *Query) bool { return len(q.PostAggregations) > 0 },
				Check: func(q *Query, field string, errs *validation.Errors) {
					for i, p := range q.PostAggregations {
						path := validation.Index(field, i)
						if p == nil {
							errs.Add(path, validation.MsgBlank)
							continue
						}
						if strings.TrimSpace(p.Name) == "" {
							errs.Add(validation.Join(path, "name"), validation.MsgBlank)
						}
						errs.Merge(path, p.Validate())
					}
				},
			},
			{
				Field:   "filter",
				Types:   names(filterTypes),
				Present: func(q *Query) bool { return q.Filter != nil },
				Check: func(q *Query, field string, errs *validation.Errors) {
					errs.Merge(field, q.Filter.Validate())
				},
			},
			{
				Field:   "having",
				Types:   names(groupByTypes),
				Present: func(q *Query) bool { return q.Having != nil },
				Check: func(q *Query, field string, errs *validation.Errors) {
					errs.Merge(field, q.Having.Validate())
				},
			},
			{
				Field:   "limitSpec",
				Types:   names(groupByTypes),
				Present: func(q *Query) bool { return q.LimitSpec != nil },
				Check: func(q *Query, field string, errs *validation.Errors) {
					if q.LimitSpec != nil {
						errs.Merge(field, q.LimitSpec.Validate())
					}
				},
			},
			{
				Field:   "limit",
				Types:   names(searchTypes),
				Present: func(q *Query) bool { return q.Limit != 0 },
				Check: func(q *Query, field string, errs *validation.Errors) {
					if q.Limit < 0 {
						errs.Add(field, "must be greater than 0")
					}
				},
			},
			{
				Field:   "searchDimensions",
				Types:   names(searchTypes),
				Present: func(q *Query) bool { return len(q.SearchDimensions) > 0 },
			},
			{
				Field:   "query",
				Types:   names(searchTypes),
				Present: func(q *Query) bool { return q.SearchQuery != nil },
				Check: func(q *Query, field string, errs *validation.Errors) {
					if q.SearchQuery == nil {
						errs.Add(field, validation.MsgBlank)
						return
					}
					switch q.SearchQuery.Type {
					case SearchInsensitiveContains, SearchContains:
					default:
						errs.Addf(field+".type", "must be one of [%s, %s]", SearchInsensitiveContains, SearchContains)
					}
				},
			},
			{
				Field:   "sort",
				Types:   names(searchTypes),
				Present: func(q *Query) bool { return q.Sort != nil },
			},
			{
				Field:   "bound",
				Types:   names(timeBoundaryTypes),
				Present: func(q *Query) bool { return q.Bound != "" },
				Check: validation.OneOf(func(q *Query) string { return q.Bound }, BoundMaxTime, BoundMinTime),
			},
			{
				Field:   "toInclude",
				Types:   names(metadataTypes),
				Present: func(q *Query) bool { return q.ToInclude != nil },
			},
			{
				Field:   "merge",
				Types:   names(metadataTypes),
				Present: func(q *Query) bool { return q.Merge != nil },
			},
			{
				Field:   "metrics",
				Types:   names(selectTypes),
				Present: func(q *Query) bool { return len(q.Metrics) > 0 },
			},
			{
				Field:   "pagingSpec",
				Types:   names(selectTypes),
				Present: func(q *Query) bool { return q.PagingSpec != nil },
				Check: func(q *Query, field string, errs *validation.Errors) {
					switch {
					case q.PagingSpec == nil:
						errs.Add(field, validation.MsgBlank)
					case q.PagingSpec.Threshold <= 0:
						errs.Add(field+".threshold", "must be greater than 0")
					}
				},
			},
			{
				Field:   "dimension",
				Types:   names(topNTypes),
				Present: func(q *Query) bool { return q.Dimension != "" },
				Check:   validation.NotBlank(func(q *Query) string { return q.Dimension }),
			},
			{
				Field:   "metric",
				Types:   names(topNTypes),
				Present: func(q *Query) bool { return q.Metric != "" },
				Check:   validation.NotBlank(func(q *Query) string { return q.Metric }),
			},
			{
				Field:   "threshold",
				Types:   names(topNTypes),
				Present: func(q *Query) bool { return q.Threshold != 0 },
				Check: func(q *Query, field string, errs *validation.Errors) {
					if q.Threshold <= 0 {
						errs.Add(field, "must be greater than 0")
					}
				},
			},
			{
				Field: "context",
				Check: func(q *Query, field string, errs *validation.Errors) {
					if q.Context != nil {
						errs.Merge(field, q.Context.Validate())
					}
				},
			},
		},
	}
}

func checkIntervals(q *Query, field string, errs *validation.Errors) {
	if len(q.Intervals) == 0 {
		errs.Add(field, "must be a list with at least one interval")
		return
	}
	for i, iv := range q.Intervals {
		if _, _, err := ParseInterval(iv); err != nil {
			errs.Add(validation.Index(field, i), err.Error())
		}
	}
}

func names(types []Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

// Validate runs the rule table and cascades into every nested record.
// Child findings are qualified with the containing field, e.g.
// "aggregations[1].fieldName".
func (q *Query) Validate() validation.Errors {
	if q == nil {
		return validation.Errors{{Field: "", Message: "query may not be nil"}}
	}
	return rules.Validate(q)
}

// Valid reports whether Validate finds nothing.
func (q *Query) Valid() bool {
	return !q.Validate().HasErrors()
}

// Applicable reports whether field may be set on a query of type t.
func Applicable(field string, t Type) bool {
	return rules.Applicable(field, string(t))
}

// Fields lists the fields governed by the query type.
func Fields() []string {
	return rules.Fields()
}
