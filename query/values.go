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
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/rulego/druidql/validation"
)

// SimpleGranularities are emitted as bare strings.
var SimpleGranularities = []string{"all", "none", "minute", "fifteen_minute", "thirty_minute", "hour", "day"}

// Granularity types of the object form.
const (
	GranularityPeriod   = "period"
	GranularityDuration = "duration"
)

// Granularity is either a simple name or a period/duration object.
type Granularity struct {
	Simple   string `json:"-"`
	Type     string `json:"type,omitempty"`
	Period   string `json:"period,omitempty"`
	Duration int64  `json:"duration,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
	Origin   string `json:"origin,omitempty"`
}

// NewGranularity returns the simple granularity name when it is one, and
// a period granularity in timeZone (UTC if empty) otherwise.
func NewGranularity(name, timeZone string) *Granularity {
	if IsSimpleGranularity(name) {
		return &Granularity{Simple: name}
	}
	if timeZone == "" {
		timeZone = "UTC"
	}
	return &Granularity{Type: GranularityPeriod, Period: name, TimeZone: timeZone}
}

// IsSimpleGranularity reports whether name is one of SimpleGranularities.
func IsSimpleGranularity(name string) bool {
	for _, s := range SimpleGranularities {
		if s == name {
			return true
		}
	}
	return false
}

type granularityObject struct {
	Type     string `json:"type,omitempty"`
	Period   string `json:"period,omitempty"`
	Duration int64  `json:"duration,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
	Origin   string `json:"origin,omitempty"`
}

func (g Granularity) MarshalJSON() ([]byte, error) {
	if g.Simple != "" {
		return wire.Marshal(g.Simple)
	}
	return wire.Marshal(granularityObject{
		Type: g.Type, Period: g.Period, Duration: g.Duration, TimeZone: g.TimeZone, Origin: g.Origin,
	})
}

func (g *Granularity) UnmarshalJSON(data []byte) error {
	var s string
	if err := wire.Unmarshal(data, &s); err == nil {
		*g = Granularity{Simple: s}
		return nil
	}
	var o granularityObject
	if err := wire.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("granularity must be a string or an object: %w", err)
	}
	*g = Granularity{Type: o.Type, Period: o.Period, Duration: o.Duration, TimeZone: o.TimeZone, Origin: o.Origin}
	return nil
}

// JSONSchema describes the string-or-object shape.
func (Granularity) JSONSchema() *jsonschema.Schema {
	simple := make([]any, len(SimpleGranularities))
	for i, s := range SimpleGranularities {
		simple[i] = s
	}
	props := jsonschema.NewProperties()
	props.Set("type", &jsonschema.Schema{Type: "string", Enum: []any{GranularityPeriod, GranularityDuration}})
	props.Set("period", &jsonschema.Schema{Type: "string"})
	props.Set("duration", &jsonschema.Schema{Type: "integer"})
	props.Set("timeZone", &jsonschema.Schema{Type: "string"})
	props.Set("origin", &jsonschema.Schema{Type: "string"})
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string", Enum: simple},
			{Type: "object", Properties: props, Required: []string{"type"}},
		},
	}
}

func (g *Granularity) String() string {
	if g.Simple != "" {
		return g.Simple
	}
	return g.Type + ":" + g.Period
}

// Validate checks either form.
func (g *Granularity) Validate() validation.Errors {
	var errs validation.Errors
	if g.Simple != "" {
		if !IsSimpleGranularity(g.Simple) {
			errs.Addf("", "must be one of [%s]", strings.Join(SimpleGranularities, ", "))
		}
		return errs
	}
	switch g.Type {
	case GranularityPeriod:
		if strings.TrimSpace(g.Period) == "" {
			errs.Add("period", validation.MsgBlank)
		}
	case GranularityDuration:
		if g.Duration <= 0 {
			errs.Add("duration", "must be greater than 0")
		}
	case "":
		errs.Add("type", validation.MsgBlank)
	default:
		errs.Addf("type", "must be one of [%s, %s]", GranularityPeriod, GranularityDuration)
	}
	return errs
}

// Dimension is a groupBy/select dimension spec.
type Dimension struct {
	Type       string `json:"type"`
	Dimension  string `json:"dimension"`
	OutputName string `json:"outputName,omitempty"`
}

// NewDimension returns a default dimension whose output name is its own.
func NewDimension(name string) *Dimension {
	return &Dimension{Type: "default", Dimension: name, OutputName: name}
}

func (d *Dimension) Validate() validation.Errors {
	var errs validation.Errors
	if strings.TrimSpace(d.Dimension) == "" {
		errs.Add("dimension", validation.MsgBlank)
	}
	if d.Type != "" && d.Type != "default" {
		errs.Add("type", "must be one of [default]")
	}
	return errs
}

// Sort directions of a limit spec column.
const (
	Ascending  = "ASCENDING"
	Descending = "DESCENDING"
)

// LimitSpec orders and truncates groupBy results.
type LimitSpec struct {
	Type    string    `json:"type"`
	Limit   int       `json:"limit,omitempty"`
	Columns []*Column `json:"columns,omitempty"`
}

// Column is one ordering column of a limit spec.
type Column struct {
	Dimension string `json:"dimension"`
	Direction string `json:"direction"`
}

// Asc orders by dimension ascending.
func Asc(dimension string) *Column {
	return &Column{Dimension: dimension, Direction: Ascending}
}

// Desc orders by dimension descending.
func Desc(dimension string) *Column {
	return &Column{Dimension: dimension, Direction: Descending}
}

// NewLimitSpec returns a default limit spec.
func NewLimitSpec(limit int, columns ...*Column) *LimitSpec {
	return &LimitSpec{Type: "default", Limit: limit, Columns: columns}
}

func (l *LimitSpec) Validate() validation.Errors {
	var errs validation.Errors
	if l.Type != "default" {
		errs.Add("type", "must be one of [default]")
	}
	if l.Limit <= 0 {
		errs.Add("limit", "must be greater than 0")
	}
	for i, c := range l.Columns {
		field := validation.Index("columns", i)
		if c == nil {
			errs.Add(field, validation.MsgBlank)
			continue
		}
		if strings.TrimSpace(c.Dimension) == "" {
			errs.Add(field+".dimension", validation.MsgBlank)
		}
		switch strings.ToUpper(c.Direction) {
		case Ascending, Descending:
		default:
			errs.Addf(field+".direction", "must be one of [%s, %s]", Ascending, Descending)
		}
	}
	return errs
}

// Search query types.
const (
	SearchInsensitiveContains = "insensitive_contains"
	SearchContains            = "contains"
)

// SearchQuery is the match spec of a search query.
type SearchQuery struct {
	Type          string `json:"type"`
	Value         string `json:"value,omitempty"`
	CaseSensitive *bool  `json:"caseSensitive,omitempty"`
}

// SearchSort orders search results.
type SearchSort struct {
	Type string `json:"type"`
}

// PagingSpec pages through select results.
type PagingSpec struct {
	PagingIdentifiers map[string]int `json:"pagingIdentifiers,omitempty"`
	Threshold         int            `json:"threshold"`
}

// ToInclude selects the columns a segmentMetadata query reports.
type ToInclude struct {
	Type    string   `json:"type"`
	Columns []string `json:"columns,omitempty"`
}

// Context carries per-query execution flags. Unset flags are not sent.
type Context struct {
	Timeout       *int64 `json:"timeout,omitempty"`
	Priority      *int   `json:"priority,omitempty"`
	QueryID       string `json:"queryId,omitempty"`
	UseCache      *bool  `json:"useCache,omitempty"`
	PopulateCache *bool  `json:"populateCache,omitempty"`
	BySegment     *bool  `json:"bySegment,omitempty"`
	Finalize      *bool  `json:"finalize,omitempty"`
}

// IsZero reports whether no flag is set.
func (c *Context) IsZero() bool {
	return c == nil || *c == (Context{})
}

func (c *Context) Validate() validation.Errors {
	var errs validation.Errors
	if c.Timeout != nil && *c.Timeout < 0 {
		errs.Add("timeout", "must not be negative")
	}
	return errs
}
