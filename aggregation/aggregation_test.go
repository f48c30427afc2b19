package aggregation

import (
	"encoding/json"
	"testing"

	"github.com/rulego/druidql/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		agg      *Aggregation
		expected string
	}{
		{"longSum", New(LongSum, "a"), `{"type":"longSum","name":"a","fieldName":"a"}`},
		{"cardinality", NewCardinality("uniq", []string{"x", "y"}, false),
			`{"type":"cardinality","name":"uniq","fieldNames":["x","y"],"byRow":false}`},
		{"thetaSketch", NewThetaSketch("users", "unique_users"),
			`{"type":"thetaSketch","name":"unique_users","fieldName":"users"}`},
		{"histogram", NewApproxHistogramFold("latency"),
			`{"type":"approxHistogramFold","name":"raw_latency","fieldName":"latency"}`},
		{"filtered", NewFiltered("a", "a_filtered", LongSum, filter.Dimension("b").Eq(1)),
			`{"type":"filtered","filter":{"type":"selector","dimension":"b","value":1},
			"aggregator":{"type":"longSum","name":"a_filtered","fieldName":"a"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.expected, toJSON(t, tt.agg))
			assert.True(t, tt.agg.Valid(), tt.agg.Validate().Error())
		})
	}
}

func TestJavascript(t *testing.T) {
	agg := NewJavascript("aggregate", []string{"x", "y"}, Functions{
		Aggregate: "function(current, a, b) { return current + (Math.log(a) * b); }",
		Combine:   "function(partialA, partialB) { return partialA + partialB; }",
		Reset:     "function() { return 10; }",
	})
	assert.Equal(t, `{"type":"javascript","name":"aggregate","fieldNames":["x","y"],`+
		`"fnAggregate":"function(current, a, b) { return current + (Math.log(a) * b); }",`+
		`"fnCombine":"function(partialA, partialB) { return partialA + partialB; }",`+
		`"fnReset":"function() { return 10; }"}`, toJSON(t, agg))
	assert.True(t, agg.Valid())
}

func TestParseType(t *testing.T) {
	for in, want := range map[string]Type{
		"longSum":               LongSum,
		"long_sum":              LongSum,
		"double_first":          DoubleFirst,
		" count ":               Count,
		"approx_histogram_fold": ApproxHistogramFold,
		"stringFirst":           StringFirst,
	} {
		got, err := ParseType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseType("median")
	assert.EqualError(t, err, `unknown aggregation type "median"`)
	assert.Len(t, Types(), 19)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "a", New(Count, "a").OutputName())
	f := NewFiltered("a", "inner", Count, filter.Dimension("b").Eq(1))
	assert.Equal(t, "inner", f.OutputName())
	f.Name = "outer"
	assert.Equal(t, "outer", f.OutputName())
	assert.Equal(t, "", (&Aggregation{Type: Filtered}).OutputName())
}

func TestAggregation_Validate(t *testing.T) {
	tests := []struct {
		name   string
		agg    *Aggregation
		errors map[string][]string
	}{
		{"缺少字段名", &Aggregation{Type: LongSum, Name: "a"}, map[string][]string{
			"fieldName": {"may not be blank"},
		}},
		{"缺少名称", &Aggregation{Type: Count, FieldName: "a"}, map[string][]string{
			"name": {"may not be blank"},
		}},
		{"未知类型", &Aggregation{Type: "median", Name: "a"}, map[string][]string{
			"type": {"must be one of [count, longSum, doubleSum, min, max, javascript, cardinality, hyperUnique, " +
				"doubleFirst, doubleLast, longFirst, longLast, floatFirst, floatLast, stringFirst, stringLast, " +
				"thetaSketch, approxHistogramFold, filtered]"},
		}},
		{"缺少类型", &Aggregation{Name: "a"}, map[string][]string{
			"type": {"may not be blank"},
		}},
		{"cardinality空列表", &Aggregation{Type: Cardinality, Name: "c", FieldNames: []string{}}, map[string][]string{
			"fieldNames": {"must be a list of field names"},
		}},
		{"cardinality空名", &Aggregation{Type: Cardinality, Name: "c", FieldNames: []string{"a", ""}}, map[string][]string{
			"fieldNames[1]": {"may not be blank"},
		}},
		{"javascript缺少函数", &Aggregation{Type: Javascript, Name: "j", FieldNames: []string{"a"},
			FnAggregate: "function(c, a) { return c + a; }", FnCombine: "return 1;"}, map[string][]string{
			"fnCombine": {"invalid javascript function: missing function keyword"},
			"fnReset":   {"may not be blank"},
		}},
		{"filtered级联", &Aggregation{Type: Filtered,
			Filter:     &filter.Filter{Type: filter.TypeSelector},
			Aggregator: &Aggregation{Type: LongSum, Name: "x"}}, map[string][]string{
			"filter.dimension":     {"may not be blank"},
			"aggregator.fieldName": {"may not be blank"},
		}},
		{"filtered缺少子对象", &Aggregation{Type: Filtered}, map[string][]string{
			"filter":     {"may not be blank"},
			"aggregator": {"may not be blank"},
		}},
		{"byRow不适用", &Aggregation{Type: LongSum, Name: "a", FieldName: "a", ByRow: new(bool)}, map[string][]string{
			"byRow": {"is not supported by type=longSum"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.agg.Validate()
			assert.Len(t, errs.Fields(), len(tt.errors), errs.Error())
			for field, msgs := range tt.errors {
				assert.Equal(t, msgs, errs.On(field), field)
			}
		})
	}
}

// 每个 (字段, 类型) 组合：不适用时报告 not supported，适用时该字段无错误
func TestAggregation_ConditionalFields(t *testing.T) {
	byRow := true
	setters := map[string]func(*Aggregation){
		"fieldName":   func(a *Aggregation) { a.FieldName = "x" },
		"fieldNames":  func(a *Aggregation) { a.FieldNames = []string{"x"} },
		"fnAggregate": func(a *Aggregation) { a.FnAggregate = "function(c, x) { return c + x; }" },
		"fnCombine":   func(a *Aggregation) { a.FnCombine = "function(a, b) { return a + b; }" },
		"fnReset":     func(a *Aggregation) { a.FnReset = "function() { return 0; }" },
		"byRow":       func(a *Aggregation) { a.ByRow = &byRow },
		"filter":      func(a *Aggregation) { a.Filter = filter.Dimension("d").Eq(1) },
		"aggregator":  func(a *Aggregation) { a.Aggregator = New(LongSum, "x") },
	}
	for _, field := range Fields() {
		set, ok := setters[field]
		if !ok {
			continue
		}
		for _, typ := range Types() {
			agg := &Aggregation{Type: typ, Name: "n"}
			set(agg)
			msgs := agg.Validate().On(field)
			if Applicable(field, typ) {
				assert.Empty(t, msgs, "%s on %s", field, typ)
			} else {
				assert.Equal(t, []string{"is not supported by type=" + string(typ)}, msgs, "%s on %s", field, typ)
			}
		}
	}
	assert.True(t, Applicable("fieldName", ThetaSketch))
	assert.False(t, Applicable("fieldNames", LongSum))
	assert.True(t, Applicable("unknown", LongSum))
}
