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
	"errors"
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// ErrNoSuchHistogram is returned for an unknown bucket strategy.
var ErrNoSuchHistogram = errors.New("no such histogram type")

// Histogram bucket strategies.
const (
	HistogramEqualBuckets  = "equalBuckets"
	HistogramBuckets       = "buckets"
	HistogramCustomBuckets = "customBuckets"
	HistogramMin           = "min"
	HistogramMax           = "max"
	HistogramQuantile      = "quantile"
	HistogramQuantiles     = "quantiles"
)

// HistogramFunc builds a histogram post-aggregation named name over the
// approximate histogram aggregation fieldName.
type HistogramFunc func(name, fieldName string, options map[string]interface{}) (*PostAggregation, error)

var histograms = map[string]HistogramFunc{
	HistogramEqualBuckets: func(name, fieldName string, options map[string]interface{}) (*PostAggregation, error) {
		p := histogram(HistogramEqualBuckets, name, fieldName)
		n, err := cast.ToIntE(optionOr(options, "numBuckets", 10))
		if err != nil {
			return nil, fmt.Errorf("numBuckets: %w", err)
		}
		p.NumBuckets = n
		return p, nil
	},
	HistogramBuckets: func(name, fieldName string, options map[string]interface{}) (*PostAggregation, error) {
		p := histogram(HistogramBuckets, name, fieldName)
		size, err := cast.ToFloat64E(optionOr(options, "bucketSize", 1))
		if err != nil {
			return nil, fmt.Errorf("bucketSize: %w", err)
		}
		p.BucketSize = size
		if v, ok := options["offset"]; ok {
			offset, err := cast.ToFloat64E(v)
			if err != nil {
				return nil, fmt.Errorf("offset: %w", err)
			}
			p.Offset = &offset
		}
		return p, nil
	},
	HistogramCustomBuckets: func(name, fieldName string, options map[string]interface{}) (*PostAggregation, error) {
		p := histogram(HistogramCustomBuckets, name, fieldName)
		breaks, err := floats(options["breaks"])
		if err != nil {
			return nil, fmt.Errorf("breaks: %w", err)
		}
		p.Breaks = breaks
		return p, nil
	},
	HistogramMin: func(name, fieldName string, _ map[string]interface{}) (*PostAggregation, error) {
		return histogram(HistogramMin, name, fieldName), nil
	},
	HistogramMax: func(name, fieldName string, _ map[string]interface{}) (*PostAggregation, error) {
		return histogram(HistogramMax, name, fieldName), nil
	},
	HistogramQuantile: func(name, fieldName string, options map[string]interface{}) (*PostAggregation, error) {
		p := histogram(HistogramQuantile, name, fieldName)
		prob, err := cast.ToFloat64E(optionOr(options, "probability", 0.5))
		if err != nil {
			return nil, fmt.Errorf("probability: %w", err)
		}
		p.Probability = &prob
		return p, nil
	},
	HistogramQuantiles: func(name, fieldName string, options map[string]interface{}) (*PostAggregation, error) {
		p := histogram(HistogramQuantiles, name, fieldName)
		probs, err := floats(options["probabilities"])
		if err != nil {
			return nil, fmt.Errorf("probabilities: %w", err)
		}
		p.Probabilities = probs
		return p, nil
	},
}

// Histogram looks strategy up in the registry. The first letter of the
// strategy name is case-insensitive, so "EqualBuckets" and "equalBuckets"
// resolve to the same constructor.
func Histogram(strategy, name, fieldName string, options map[string]interface{}) (*PostAggregation, error) {
	fn, ok := histograms[lowerFirst(strategy)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchHistogram, strategy)
	}
	p, err := fn(name, fieldName, options)
	if err != nil {
		return nil, fmt.Errorf("%s histogram: %w", lowerFirst(strategy), err)
	}
	return p, nil
}

// HistogramStrategies lists the registered strategy names.
func HistogramStrategies() []string {
	out := make([]string, 0, len(histograms))
	for k := range histograms {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsHistogram reports whether typ is a histogram strategy type.
func IsHistogram(typ string) bool {
	_, ok := histograms[typ]
	return ok
}

func histogram(typ, name, fieldName string) *PostAggregation {
	return &PostAggregation{Type: typ, Name: name, FieldName: fieldName}
}

func optionOr(options map[string]interface{}, key string, def interface{}) interface{} {
	if v, ok := options[key]; ok && v != nil {
		return v
	}
	return def
}

func floats(v interface{}) ([]float64, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []float64:
		return x, nil
	case []int:
		out := make([]float64, len(x))
		for i, n := range x {
			out[i] = float64(n)
		}
		return out, nil
	}
	items, err := cast.ToSliceE(v)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		f, err := cast.ToFloat64E(item)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
