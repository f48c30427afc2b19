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
	"github.com/rulego/druidql/aggregation"
	"github.com/rulego/druidql/filter"
	"github.com/rulego/druidql/having"
	"github.com/rulego/druidql/postagg"
)

// Type is the closed set of query types.
type Type string

const (
	Timeseries         Type = "timeseries"
	Search             Type = "search"
	TimeBoundary       Type = "timeBoundary"
	GroupBy            Type = "groupBy"
	SegmentMetadata    Type = "segmentMetadata"
	Select             Type = "select"
	TopN               Type = "topN"
	DataSourceMetadata Type = "dataSourceMetadata"
)

var allTypes = []Type{Timeseries, Search, TimeBoundary, GroupBy, SegmentMetadata, Select, TopN, DataSourceMetadata}

// Types returns every query type.
func Types() []Type {
	return append([]Type(nil), allTypes...)
}

// Valid reports whether t is a known query type.
func (t Type) Valid() bool {
	for _, v := range allTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Query is the JSON document sent to the broker. Which fields are legal
// depends on QueryType; Validate enforces it.
type Query struct {
	QueryType        Type                       `json:"queryType"`
	DataSource       string                     `json:"dataSource,omitempty"`
	Intervals        []string                   `json:"intervals,omitempty"`
	Granularity      *Granularity               `json:"granularity,omitempty"`
	Dimensions       []*Dimension               `json:"dimensions,omitempty"`
	Aggregations     []*aggregation.Aggregation `json:"aggregations,omitempty"`
	PostAggregations []*postagg.PostAggregation `json:"postAggregations,omitempty"`
	Filter           *filter.Filter             `json:"filter,omitempty"`
	Having           *having.Having             `json:"having,omitempty"`
	LimitSpec        *LimitSpec                 `json:"limitSpec,omitempty"`

	// search
	Limit            int          `json:"limit,omitempty"`
	SearchDimensions []string     `json:"searchDimensions,omitempty"`
	SearchQuery      *SearchQuery `json:"query,omitempty"`
	Sort             *SearchSort  `json:"sort,omitempty"`

	// timeBoundary
	Bound string `json:"bound,omitempty"`

	// segmentMetadata
	ToInclude *ToInclude `json:"toInclude,omitempty"`
	Merge     *bool      `json:"merge,omitempty"`

	// select
	Metrics    []string    `json:"metrics,omitempty"`
	PagingSpec *PagingSpec `json:"pagingSpec,omitempty"`

	// topN
	Dimension string `json:"dimension,omitempty"`
	Metric    string `json:"metric,omitempty"`
	Threshold int    `json:"threshold,omitempty"`

	Context *Context `json:"context,omitempty"`
}

// New returns an empty query of type t.
func New(t Type) *Query {
	return &Query{QueryType: t}
}

// ContainsAggregation reports whether an aggregation with output name name
// is registered.
func (q *Query) ContainsAggregation(name string) bool {
	for _, a := range q.Aggregations {
		if a.OutputName() == name {
			return true
		}
	}
	return false
}

// AggregationNames returns the output names of the aggregations in order.
func (q *Query) AggregationNames() []string {
	out := make([]string, 0, len(q.Aggregations))
	for _, a := range q.Aggregations {
		out = append(out, a.OutputName())
	}
	return out
}

// AggregationTypes returns the distinct aggregation types in first-seen
// order. Filtered aggregations contribute their inner type as well.
func (q *Query) AggregationTypes() []aggregation.Type {
	seen := make(map[aggregation.Type]bool)
	var out []aggregation.Type
	var add func(a *aggregation.Aggregation)
	add = func(a *aggregation.Aggregation) {
		if a == nil {
			return
		}
		if a.Type != "" && !seen[a.Type] {
			seen[a.Type] = true
			out = append(out, a.Type)
		}
		add(a.Aggregator)
	}
	for _, a := range q.Aggregations {
		add(a)
	}
	return out
}

// AggregationFieldNames returns the distinct input columns read by the
// aggregations (fieldName and fieldNames) in first-seen order.
func (q *Query) AggregationFieldNames() []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(q.Aggregations))
	push := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	var add func(a *aggregation.Aggregation)
	add = func(a *aggregation.Aggregation) {
		if a == nil {
			return
		}
		push(a.FieldName)
		for _, n := range a.FieldNames {
			push(n)
		}
		add(a.Aggregator)
	}
	for _, a := range q.Aggregations {
		add(a)
	}
	return out
}

// EnsureContext returns the query context, creating it on first use.
func (q *Query) EnsureContext() *Context {
	if q.Context == nil {
		q.Context = &Context{}
	}
	return q.Context
}
