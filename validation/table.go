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

package validation

import "strings"

// Check applies a field's local constraint and records findings under field.
type Check[T any] func(rec T, field string, errs *Errors)

// Rule is one row of a conditional rule table.
//
// When the record's discriminator is in Types (or Types is empty, meaning
// every discriminator) the Check runs. Otherwise the field must be absent
// and Present reporting true is itself a finding.
type Rule[T any] struct {
	Field   string
	Types   []string
	Present func(rec T) bool
	Check   Check[T]
}

// AppliesTo reports whether the rule's field is legal for discriminator.
func (r Rule[T]) AppliesTo(discriminator string) bool {
	if len(r.Types) == 0 {
		return true
	}
	for _, t := range r.Types {
		if t == discriminator {
			return true
		}
	}
	return false
}

// Table ties field legality to a discriminator value.
type Table[T any] struct {
	Discriminator func(rec T) string
	Rules         []Rule[T]
}

// Validate evaluates every rule against rec. It never stops at the first
// finding.
func (t *Table[T]) Validate(rec T) Errors {
	var errs Errors
	d := t.Discriminator(rec)
	for _, r := range t.Rules {
		if r.AppliesTo(d) {
			if r.Check != nil {
				r.Check(rec, r.Field, &errs)
			}
			continue
		}
		if r.Present != nil && r.Present(rec) {
			errs.Add(r.Field, NotSupported(d))
		}
	}
	return errs
}

// Applicable reports whether field is legal for discriminator. Fields the
// table does not know about are considered legal.
func (t *Table[T]) Applicable(field, discriminator string) bool {
	for _, r := range t.Rules {
		if r.Field == field {
			return r.AppliesTo(discriminator)
		}
	}
	return true
}

// Fields lists the field names governed by the table in rule order.
func (t *Table[T]) Fields() []string {
	out := make([]string, 0, len(t.Rules))
	for _, r := range t.Rules {
		out = append(out, r.Field)
	}
	return out
}

// NotBlank requires the string returned by get to contain non-space text.
func NotBlank[T any](get func(T) string) Check[T] {
	return func(rec T, field string, errs *Errors) {
		if strings.TrimSpace(get(rec)) == "" {
			errs.Add(field, MsgBlank)
		}
	}
}

// NonEmpty requires the list length returned by size to be positive.
func NonEmpty[T any](size func(T) int, message string) Check[T] {
	return func(rec T, field string, errs *Errors) {
		if size(rec) == 0 {
			errs.Add(field, message)
		}
	}
}

// All runs every check in order.
func All[T any](checks ...Check[T]) Check[T] {
	return func(rec T, field string, errs *Errors) {
		for _, c := range checks {
			c(rec, field, errs)
		}
	}
}

// OneOf requires get to return one of the allowed values. Blank values are
// accepted so that optional fields stay optional.
func OneOf[T any](get func(T) string, allowed ...string) Check[T] {
	return func(rec T, field string, errs *Errors) {
		v := get(rec)
		if v == "" {
			return
		}
		for _, a := range allowed {
			if a == v {
				return
			}
		}
		errs.Addf(field, "must be one of [%s]", strings.Join(allowed, ", "))
	}
}
