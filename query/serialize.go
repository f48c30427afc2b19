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
	"github.com/invopop/jsonschema"
	jsoniter "github.com/json-iterator/go"
)

// wire is the JSON codec for query documents. HTML characters stay
// unescaped so scripts such as `a < 1` travel verbatim.
var wire = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// Marshal serializes v, typically a *Query, to compact JSON. Absent optional
// fields are omitted; invalid documents serialize as they are.
func Marshal(v interface{}) ([]byte, error) {
	return wire.Marshal(prepare(v))
}

// MarshalIndent is Marshal with two-space indentation.
func MarshalIndent(v interface{}) ([]byte, error) {
	return wire.MarshalIndent(prepare(v), "", "  ")
}

// prepare drops an empty context so it is not sent as {}.
func prepare(v interface{}) interface{} {
	q, ok := v.(*Query)
	if !ok || q == nil || q.Context == nil || !q.Context.IsZero() {
		return v
	}
	c := *q
	c.Context = nil
	return &c
}

// Unmarshal decodes a query document.
func Unmarshal(data []byte) (*Query, error) {
	var q Query
	if err := wire.Unmarshal(data, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// JSON is Marshal(q).
func (q *Query) JSON() ([]byte, error) {
	return Marshal(q)
}

// Schema returns the JSON Schema of the query document.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{RequiredFromJSONSchemaTags: true}
	return r.Reflect(&Query{})
}
