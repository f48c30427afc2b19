package druidql

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/druidql/aggregation"
	"github.com/rulego/druidql/config"
	"github.com/rulego/druidql/filter"
	"github.com/rulego/druidql/having"
	"github.com/rulego/druidql/logger"
	"github.com/rulego/druidql/postagg"
	"github.com/rulego/druidql/query"
	"github.com/rulego/druidql/script"
)

var fixedNow = time.Date(2013, 1, 26, 12, 30, 0, 0, time.UTC)

func newTestBuilder(opts ...Option) *Builder {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow }), WithDiscardLog()}, opts...)
	return New(opts...)
}

// field 序列化查询后取出单个顶层字段
func field(t *testing.T, b *Builder, name string) string {
	t.Helper()
	data, err := b.JSON()
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	raw, ok := doc[name]
	if !ok {
		return ""
	}
	return string(raw)
}

func TestNew_Defaults(t *testing.T) {
	b := newTestBuilder()
	assert.Equal(t, query.Timeseries, b.Query().QueryType)
	assert.Equal(t, []string{"2013-01-26T00:00:00+00:00/2013-01-26T12:30:00+00:00"}, b.Query().Intervals)
	assert.Nil(t, b.Query().Context)
	assert.Empty(t, field(t, b, "context"))
}

func TestQueryType(t *testing.T) {
	b := newTestBuilder()
	assert.Equal(t, query.GroupBy, b.QueryType(query.GroupBy).Query().QueryType)
	assert.Equal(t, query.Timeseries, b.Timeseries().Query().QueryType)

	t.Run("groupBy设置维度", func(t *testing.T) {
		b := newTestBuilder().GroupBy("a", "b")
		assert.Equal(t, query.GroupBy, b.Query().QueryType)
		assert.JSONEq(t, `[
			{"type":"default","dimension":"a","outputName":"a"},
			{"type":"default","dimension":"b","outputName":"b"}
		]`, field(t, b, "dimensions"))
	})

	t.Run("topN", func(t *testing.T) {
		b := newTestBuilder().TopN("page", "edits", 5)
		q := b.Query()
		assert.Equal(t, query.TopN, q.QueryType)
		assert.Equal(t, "page", q.Dimension)
		assert.Equal(t, "edits", q.Metric)
		assert.Equal(t, 5, q.Threshold)
	})

	t.Run("search", func(t *testing.T) {
		b := newTestBuilder().Search("wiki", []string{"page"}, 20)
		assert.JSONEq(t, `{"type":"insensitive_contains","value":"wiki"}`, field(t, b, "query"))
		assert.JSONEq(t, `{"type":"lexicographic"}`, field(t, b, "sort"))
		assert.JSONEq(t, `["page"]`, field(t, b, "searchDimensions"))
		assert.Equal(t, "20", field(t, b, "limit"))

		b = newTestBuilder().Search("wiki", nil, 0)
		assert.Empty(t, field(t, b, "searchDimensions"))
		assert.Empty(t, field(t, b, "limit"))
	})

	t.Run("metadata关闭缓存", func(t *testing.T) {
		b := newTestBuilder().Metadata()
		assert.Equal(t, query.SegmentMetadata, b.Query().QueryType)
		assert.JSONEq(t, `{"useCache":false,"populateCache":false}`, field(t, b, "context"))
	})

	t.Run("select", func(t *testing.T) {
		b := newTestBuilder().Select([]string{"page"}, []string{"edits"}, 50)
		assert.JSONEq(t, `{"threshold":50}`, field(t, b, "pagingSpec"))
		assert.JSONEq(t, `["edits"]`, field(t, b, "metrics"))
	})

	t.Run("timeBoundary", func(t *testing.T) {
		b := newTestBuilder().TimeBoundary(query.BoundMaxTime)
		assert.Equal(t, `"maxTime"`, field(t, b, "bound"))
	})

	assert.Equal(t, query.DataSourceMetadata, newTestBuilder().DataSourceMetadata().Query().QueryType)
}

func TestDataSource(t *testing.T) {
	assert.Equal(t, "wikipedia", newTestBuilder().DataSource("events/wikipedia").Query().DataSource)
	assert.Equal(t, "wikipedia", newTestBuilder().DataSource("wikipedia").Query().DataSource)
	assert.Equal(t, "c", newTestBuilder().DataSource("a/b/c").Query().DataSource)
}

func TestIntervals(t *testing.T) {
	t.Run("字符串区间", func(t *testing.T) {
		b, err := newTestBuilder().IntervalString("2013-01-26T00", "2020-01-26T00:15")
		require.NoError(t, err)
		assert.Equal(t, []string{"2013-01-26T00:00:00+00:00/2020-01-26T00:15:00+00:00"}, b.Query().Intervals)
	})

	t.Run("多个区间", func(t *testing.T) {
		b, err := newTestBuilder().Intervals([][2]string{
			{"2013-01-26T00", "2020-01-26T00:15"},
			{"2013-04-23T00", "2013-04-23T15:00"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"2013-01-26T00:00:00+00:00/2020-01-26T00:15:00+00:00",
			"2013-04-23T00:00:00+00:00/2013-04-23T15:00:00+00:00",
		}, b.Query().Intervals)
	})

	t.Run("时间对象", func(t *testing.T) {
		from := time.Date(2014, 3, 1, 8, 0, 0, 0, time.FixedZone("CET", 3600))
		b := newTestBuilder().Interval(from, from.Add(time.Second))
		assert.Equal(t, []string{"2014-03-01T08:00:00+01:00/2014-03-01T08:00:01+01:00"}, b.Query().Intervals)
	})

	t.Run("最近时长", func(t *testing.T) {
		b := newTestBuilder().Last(time.Hour)
		assert.Equal(t, []string{"2013-01-26T11:30:00+00:00/2013-01-26T12:30:00+00:00"}, b.Query().Intervals)
	})

	t.Run("非法日期保留原区间", func(t *testing.T) {
		b := newTestBuilder()
		before := b.Query().Intervals
		_, err := b.IntervalString("yesterday", "2013-01-26")
		require.Error(t, err)
		assert.Equal(t, before, b.Query().Intervals)
	})
}

func TestGranularity(t *testing.T) {
	b := newTestBuilder().Granularity("all")
	assert.Equal(t, `"all"`, field(t, b, "granularity"))

	b = newTestBuilder().Granularity("P1D", "Europe/Berlin")
	assert.JSONEq(t, `{"type":"period","period":"P1D","timeZone":"Europe/Berlin"}`, field(t, b, "granularity"))

	b = newTestBuilder().Granularity("PT1H")
	assert.JSONEq(t, `{"type":"period","period":"PT1H","timeZone":"UTC"}`, field(t, b, "granularity"))
}

func TestAggregations(t *testing.T) {
	t.Run("longSum", func(t *testing.T) {
		b := newTestBuilder().LongSum("a", "b", "c")
		assert.JSONEq(t, `[
			{"type":"longSum","name":"a","fieldName":"a"},
			{"type":"longSum","name":"b","fieldName":"b"},
			{"type":"longSum","name":"c","fieldName":"c"}
		]`, field(t, b, "aggregations"))
	})

	t.Run("追加聚合", func(t *testing.T) {
		b := newTestBuilder().LongSum("a", "b", "c").DoubleSum("x", "y").LongSum("d", "e", "f")
		assert.Equal(t, []string{"a", "b", "c", "x", "y", "d", "e", "f"}, b.Query().AggregationNames())
		assert.Equal(t, []aggregation.Type{aggregation.LongSum, aggregation.DoubleSum}, b.Query().AggregationTypes())
	})

	t.Run("同名去重", func(t *testing.T) {
		b := newTestBuilder().LongSum("a", "b").LongSum("b").DoubleSum("a")
		assert.JSONEq(t, `[
			{"type":"longSum","name":"a","fieldName":"a"},
			{"type":"longSum","name":"b","fieldName":"b"}
		]`, field(t, b, "aggregations"))
	})

	t.Run("简单类型", func(t *testing.T) {
		tests := []struct {
			name string
			add  func(b *Builder, metrics ...string) *Builder
			typ  aggregation.Type
		}{
			{"count", (*Builder).Count, aggregation.Count},
			{"sum", (*Builder).Sum, aggregation.LongSum},
			{"min", (*Builder).Min, aggregation.Min},
			{"max", (*Builder).Max, aggregation.Max},
			{"hyperUnique", (*Builder).HyperUnique, aggregation.HyperUnique},
			{"doubleFirst", (*Builder).DoubleFirst, aggregation.DoubleFirst},
			{"doubleLast", (*Builder).DoubleLast, aggregation.DoubleLast},
			{"longFirst", (*Builder).LongFirst, aggregation.LongFirst},
			{"longLast", (*Builder).LongLast, aggregation.LongLast},
			{"floatFirst", (*Builder).FloatFirst, aggregation.FloatFirst},
			{"floatLast", (*Builder).FloatLast, aggregation.FloatLast},
			{"stringFirst", (*Builder).StringFirst, aggregation.StringFirst},
			{"stringLast", (*Builder).StringLast, aggregation.StringLast},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				b := tt.add(newTestBuilder(), "a", "b")
				aggs := b.Query().Aggregations
				require.Len(t, aggs, 2)
				for i, name := range []string{"a", "b"} {
					assert.Equal(t, tt.typ, aggs[i].Type)
					assert.Equal(t, name, aggs[i].Name)
					assert.Equal(t, name, aggs[i].FieldName)
				}
			})
		}
	})

	t.Run("按类型名登记", func(t *testing.T) {
		b, err := newTestBuilder().Aggregate("double_sum", "x")
		require.NoError(t, err)
		assert.Equal(t, aggregation.DoubleSum, b.Query().Aggregations[0].Type)

		_, err = newTestBuilder().Aggregate("median", "x")
		assert.Error(t, err)
	})

	t.Run("cardinality", func(t *testing.T) {
		b := newTestBuilder().Cardinality("a", []string{"dim1", "dim2"}, true)
		assert.JSONEq(t, `[{"type":"cardinality","name":"a","fieldNames":["dim1","dim2"],"byRow":true}]`,
			field(t, b, "aggregations"))

		b = newTestBuilder().Cardinality("a", []string{"dim1"}, false)
		assert.JSONEq(t, `[{"type":"cardinality","name":"a","fieldNames":["dim1"],"byRow":false}]`,
			field(t, b, "aggregations"))
	})

	t.Run("javascript", func(t *testing.T) {
		b := newTestBuilder().JSAggregation("aggregate", []string{"x", "y"}, aggregation.Functions{
			Aggregate: "function(current, a, b)      { return current + (Math.log(a) * b); }",
			Combine:   "function(partialA, partialB) { return partialA + partialB; }",
			Reset:     "function()                   { return 10; }",
		})
		assert.JSONEq(t, `[{
			"type":"javascript",
			"name":"aggregate",
			"fieldNames":["x","y"],
			"fnAggregate":"function(current, a, b)      { return current + (Math.log(a) * b); }",
			"fnCombine":"function(partialA, partialB) { return partialA + partialB; }",
			"fnReset":"function()                   { return 10; }"
		}]`, field(t, b, "aggregations"))
	})

	t.Run("thetaSketch", func(t *testing.T) {
		b := newTestBuilder().ThetaSketch("user_id_sketch", "B_unique_users")
		assert.JSONEq(t, `[{"type":"thetaSketch","name":"B_unique_users","fieldName":"user_id_sketch"}]`,
			field(t, b, "aggregations"))
	})

	t.Run("filtered", func(t *testing.T) {
		b := newTestBuilder().FilteredAggregation("a", "a_filtered", aggregation.LongSum,
			filter.Dimension("b").Eq(2).And(filter.Dimension("c").Neq(3)))
		assert.JSONEq(t, `[{
			"type":"filtered",
			"filter":{"type":"and","fields":[
				{"type":"selector","dimension":"b","value":2},
				{"type":"not","field":{"type":"selector","dimension":"c","value":3}}
			]},
			"aggregator":{"type":"longSum","name":"a_filtered","fieldName":"a"}
		}]`, field(t, b, "aggregations"))
		assert.True(t, b.Query().ContainsAggregation("a_filtered"))

		b.LongSum("a_filtered")
		assert.Len(t, b.Query().Aggregations, 1)
	})

	t.Run("filtered闭包", func(t *testing.T) {
		b := newTestBuilder().FilteredAggregationFunc("a", "a_filtered", aggregation.LongSum, func(c filter.Context) *filter.Filter {
			return c.Dim("b").Eq(2).And(c.Dim("c").Neq(3))
		})
		want := newTestBuilder().FilteredAggregation("a", "a_filtered", aggregation.LongSum,
			filter.Dimension("b").Eq(2).And(filter.Dimension("c").Neq(3)))
		assert.JSONEq(t, field(t, want, "aggregations"), field(t, b, "aggregations"))

		b.FilteredAggregationFunc("a", "a_filtered", aggregation.DoubleSum, func(c filter.Context) *filter.Filter {
			return c.Dim("d").Eq(1)
		})
		assert.Len(t, b.Query().Aggregations, 1)
		assert.Equal(t, []string{"a"}, b.Query().AggregationFieldNames())
	})
}

func TestHistogram(t *testing.T) {
	b, err := newTestBuilder().Histogram("latency", "", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"approxHistogramFold","name":"raw_latency","fieldName":"latency"}]`,
		field(t, b, "aggregations"))
	assert.JSONEq(t, `[{"type":"equalBuckets","name":"latency","fieldName":"raw_latency","numBuckets":10}]`,
		field(t, b, "postAggregations"))

	_, err = b.Histogram("latency", "Quantiles", map[string]interface{}{"probabilities": []float64{0.5, 0.9}})
	require.NoError(t, err)
	assert.Len(t, b.Query().Aggregations, 1)
	require.Len(t, b.Query().PostAggregations, 2)
	assert.Equal(t, postagg.HistogramQuantiles, b.Query().PostAggregations[1].Type)
	assert.Equal(t, []float64{0.5, 0.9}, b.Query().PostAggregations[1].Probabilities)

	_, err = b.Histogram("latency", "median", nil)
	assert.True(t, errors.Is(err, postagg.ErrNoSuchHistogram))
	assert.Len(t, b.Query().PostAggregations, 2)

	b, err = newTestBuilder().Histograms("a", "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"raw_a", "raw_b"}, b.Query().AggregationNames())
}

func TestPostAgg(t *testing.T) {
	t.Run("常量右操作数", func(t *testing.T) {
		b := newTestBuilder().PostAgg(postagg.Field("a").Add(10).As("summand"))
		assert.JSONEq(t, `[{
			"type":"arithmetic","name":"summand","fn":"+",
			"fields":[{"type":"fieldAccess","fieldName":"a"},{"type":"constant","value":10}]
		}]`, field(t, b, "postAggregations"))
	})

	t.Run("四则运算", func(t *testing.T) {
		for fn, p := range map[string]*postagg.PostAggregation{
			"+": postagg.Field("a").Add("b"),
			"-": postagg.Field("a").Sub("b"),
			"*": postagg.Field("a").Mul("b"),
			"/": postagg.Field("a").Div("b"),
		} {
			b := newTestBuilder().PostAgg(p.As("c"))
			q := b.Query()
			require.Len(t, q.PostAggregations, 1, fn)
			assert.Equal(t, fn, q.PostAggregations[0].Fn)
			assert.Equal(t, []string{"a", "b"}, q.AggregationNames())
		}
	})

	t.Run("自动登记longSum", func(t *testing.T) {
		b := newTestBuilder().PostAgg(postagg.Field("a").Div("b").As("c"))
		assert.JSONEq(t, `[
			{"type":"longSum","name":"a","fieldName":"a"},
			{"type":"longSum","name":"b","fieldName":"b"}
		]`, field(t, b, "aggregations"))
	})

	t.Run("已有聚合不重复登记", func(t *testing.T) {
		b := newTestBuilder().DoubleSum("a").PostAgg(postagg.Field("a").Div("b").As("c"))
		aggs := b.Query().Aggregations
		require.Len(t, aggs, 2)
		assert.Equal(t, aggregation.DoubleSum, aggs[0].Type)
		assert.Equal(t, aggregation.LongSum, aggs[1].Type)
	})

	t.Run("指定自动登记类型", func(t *testing.T) {
		b := newTestBuilder().PostAggWith(aggregation.DoubleSum, postagg.Field("a").Div("b").As("c"))
		assert.Equal(t, []aggregation.Type{aggregation.DoubleSum}, b.Query().AggregationTypes())
	})

	t.Run("链式后聚合", func(t *testing.T) {
		b := newTestBuilder().
			PostAgg(postagg.Field("a").Div("b").As("ctr")).
			PostAgg(postagg.Field("b").Div("a").As("rtc"))
		assert.JSONEq(t, `[
			{"type":"arithmetic","name":"ctr","fn":"/","fields":[
				{"type":"fieldAccess","fieldName":"a"},{"type":"fieldAccess","fieldName":"b"}]},
			{"type":"arithmetic","name":"rtc","fn":"/","fields":[
				{"type":"fieldAccess","fieldName":"b"},{"type":"fieldAccess","fieldName":"a"}]}
		]`, field(t, b, "postAggregations"))
		assert.Equal(t, []string{"a", "b"}, b.Query().AggregationNames())
	})

	t.Run("表达式", func(t *testing.T) {
		b, err := newTestBuilder().PostAggExpr("ctr", "clicks / impressions * 1000")
		require.NoError(t, err)
		assert.JSONEq(t, `[{
			"type":"arithmetic","name":"ctr","fn":"*","fields":[
				{"type":"arithmetic","fn":"/","fields":[
					{"type":"fieldAccess","fieldName":"clicks"},
					{"type":"fieldAccess","fieldName":"impressions"}]},
				{"type":"constant","value":1000}]
		}]`, field(t, b, "postAggregations"))
		assert.Equal(t, []string{"clicks", "impressions"}, b.Query().AggregationNames())

		_, err = newTestBuilder().PostAggExpr("x", "a %% b")
		assert.Error(t, err)
	})

	t.Run("javascript", func(t *testing.T) {
		b, err := newTestBuilder().PostAggJS("result", "function(agg1, agg2) { return agg1 + agg2; }")
		require.NoError(t, err)
		assert.JSONEq(t, `[{
			"type":"javascript","name":"result","fieldNames":["agg1","agg2"],
			"function":"function(agg1, agg2) { return agg1 + agg2; }"
		}]`, field(t, b, "postAggregations"))
		assert.Equal(t, []string{"agg1", "agg2"}, b.Query().AggregationNames())

		b = newTestBuilder()
		_, err = b.PostAggJS("result", "{ return a_with_b - a; }")
		assert.True(t, errors.Is(err, script.ErrInvalidScript))
		assert.Empty(t, b.Query().PostAggregations)
	})

	t.Run("hyperUniqueCardinality不自动登记", func(t *testing.T) {
		b := newTestBuilder().HyperUnique("a", "b").PostAgg(
			postagg.HyperUniqueCardinality("a").Div(postagg.HyperUniqueCardinality("b")).As("ratio"))
		assert.Equal(t, []aggregation.Type{aggregation.HyperUnique}, b.Query().AggregationTypes())
	})

	t.Run("thetaSketch集合运算", func(t *testing.T) {
		b := newTestBuilder().
			FilteredAggregation("user_id_sketch", "A_unique_users", aggregation.ThetaSketch, filter.Dimension("product").Eq("A")).
			FilteredAggregation("user_id_sketch", "B_unique_users", aggregation.ThetaSketch, filter.Dimension("product").Eq("B")).
			ThetaSketchPostAgg("final_unique_users", postagg.FuncIntersect, "A_unique_users", "B_unique_users")
		assert.JSONEq(t, `[{
			"type":"thetaSketchEstimate","name":"final_unique_users",
			"field":{
				"type":"thetaSketchSetOp","name":"final_unique_users_sketch","func":"INTERSECT",
				"fields":[
					{"type":"fieldAccess","fieldName":"A_unique_users"},
					{"type":"fieldAccess","fieldName":"B_unique_users"}
				]
			}
		}]`, field(t, b, "postAggregations"))
		assert.Len(t, b.Query().Aggregations, 2)
	})

	t.Run("nil忽略", func(t *testing.T) {
		b := newTestBuilder().PostAgg(nil)
		assert.Empty(t, b.Query().PostAggregations)
	})
}

func TestFilter(t *testing.T) {
	t.Run("链式合并", func(t *testing.T) {
		b := newTestBuilder().
			Filter(filter.Dimension("a").Eq(1)).
			Filter(filter.Dimension("b").Eq(2)).
			FilterFunc(func(c filter.Context) *filter.Filter { return c.Dim("c").Eq(3) })
		assert.JSONEq(t, `{"type":"and","fields":[
			{"type":"selector","dimension":"a","value":1},
			{"type":"selector","dimension":"b","value":2},
			{"type":"selector","dimension":"c","value":3}
		]}`, field(t, b, "filter"))
	})

	t.Run("两个in", func(t *testing.T) {
		b := newTestBuilder().FilterFunc(func(c filter.Context) *filter.Filter {
			return c.Dim("a").In([]int{1, 2, 3}).And(c.Dim("b").In(1, 2, 3))
		})
		assert.JSONEq(t, `{"type":"and","fields":[
			{"type":"or","fields":[
				{"type":"selector","dimension":"a","value":1},
				{"type":"selector","dimension":"a","value":2},
				{"type":"selector","dimension":"a","value":3}]},
			{"type":"or","fields":[
				{"type":"selector","dimension":"b","value":1},
				{"type":"selector","dimension":"b","value":2},
				{"type":"selector","dimension":"b","value":3}]}
		]}`, field(t, b, "filter"))
	})

	t.Run("正则", func(t *testing.T) {
		b := newTestBuilder().Filter(filter.Dimension("a").In(regexp.MustCompile("abc.*")))
		assert.JSONEq(t, `{"type":"regex","dimension":"a","pattern":"abc.*"}`, field(t, b, "filter"))

		b = newTestBuilder().Filter(filter.Dimension("a").In("b", regexp.MustCompile("[a-z].*"), "c"))
		assert.JSONEq(t, `{"type":"or","fields":[
			{"type":"selector","dimension":"a","value":"b"},
			{"type":"regex","dimension":"a","pattern":"[a-z].*"},
			{"type":"selector","dimension":"a","value":"c"}
		]}`, field(t, b, "filter"))
	})

	t.Run("map过滤", func(t *testing.T) {
		b, err := newTestBuilder().FilterMap(map[string]interface{}{"b": []string{"x", "y"}, "a": 1}, "")
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"and","fields":[
			{"type":"selector","dimension":"a","value":1},
			{"type":"or","fields":[
				{"type":"selector","dimension":"b","value":"x"},
				{"type":"selector","dimension":"b","value":"y"}]}
		]}`, field(t, b, "filter"))

		b, err = newTestBuilder().FilterMap(map[string]interface{}{"a": []int{1, 2}}, filter.ModeNin)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"and","fields":[
			{"type":"not","field":{"type":"selector","dimension":"a","value":1}},
			{"type":"not","field":{"type":"selector","dimension":"a","value":2}}
		]}`, field(t, b, "filter"))

		_, err = newTestBuilder().FilterMap(map[string]interface{}{"a": 1}, "between")
		assert.True(t, errors.Is(err, filter.ErrUnsupportedMode))
	})

	t.Run("表达式", func(t *testing.T) {
		b, err := newTestBuilder().FilterExpr(`a > 100 && b != "x"`)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"and","fields":[
			{"type":"javascript","dimension":"a","function":"function(a) { return(a > 100); }"},
			{"type":"not","field":{"type":"selector","dimension":"b","value":"x"}}
		]}`, field(t, b, "filter"))

		b = newTestBuilder()
		_, err = b.FilterExpr("a +")
		assert.Error(t, err)
		assert.Nil(t, b.Query().Filter)
	})
}

func TestHaving(t *testing.T) {
	t.Run("successive calls combine with and", func(t *testing.T) {
		b := newTestBuilder().
			Having(having.Aggregation("a").GreaterThan(100)).
			HavingFunc(func(c having.Context) *having.Having { return c.Agg("b").GreaterThan(200) })
		b, err := b.HavingExpr("c > 300")
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"and","havingSpecs":[
			{"type":"greaterThan","aggregation":"a","value":100},
			{"type":"greaterThan","aggregation":"b","value":200},
			{"type":"greaterThan","aggregation":"c","value":300}
		]}`, field(t, b, "having"))
	})

	t.Run("取反", func(t *testing.T) {
		b, err := newTestBuilder().HavingExpr("!(a == 100 && b == 200)")
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"not","havingSpec":{"type":"and","havingSpecs":[
			{"type":"equalTo","aggregation":"a","value":100},
			{"type":"equalTo","aggregation":"b","value":200}
		]}}`, field(t, b, "having"))
	})

	t.Run("非法表达式", func(t *testing.T) {
		b := newTestBuilder()
		_, err := b.HavingExpr("a")
		assert.Error(t, err)
		assert.Nil(t, b.Query().Having)
	})
}

func TestLimit(t *testing.T) {
	b := newTestBuilder().Limit(10, query.Asc("a"), query.Desc("b"))
	assert.JSONEq(t, `{"type":"default","limit":10,"columns":[
		{"dimension":"a","direction":"ASCENDING"},
		{"dimension":"b","direction":"DESCENDING"}
	]}`, field(t, b, "limitSpec"))
}

func TestContext(t *testing.T) {
	b := newTestBuilder().
		UseCache(true).
		PopulateCache(false).
		Timeout(1500 * time.Millisecond).
		Priority(7).
		QueryID("q-1")
	assert.JSONEq(t, `{"timeout":1500,"priority":7,"queryId":"q-1","useCache":true,"populateCache":false}`,
		field(t, b, "context"))

	b = newTestBuilder(WithRandomQueryID(), WithQueryTimeout(time.Minute))
	require.NotNil(t, b.Query().Context)
	assert.Len(t, b.Query().Context.QueryID, 36)
	assert.Equal(t, int64(60000), *b.Query().Context.Timeout)
}

func TestChainable(t *testing.T) {
	b := newTestBuilder()
	steps := []*Builder{
		b.QueryType(query.GroupBy),
		b.DataSource("b"),
		b.GroupBy("c"),
		b.LongSum("d"),
		b.DoubleSum("e"),
		b.Filter(filter.Dimension("a").Eq(1)),
		b.Granularity("day"),
		b.Having(having.Aggregation("d").GreaterThan(1)),
		b.Limit(5),
	}
	for _, s := range steps {
		assert.Same(t, b, s)
	}
}

func TestValidate(t *testing.T) {
	var buf bytes.Buffer
	b := New(WithClock(func() time.Time { return fixedNow }), WithLogOutput(&buf, logger.WARN))

	errs := b.Validate()
	require.True(t, errs.HasErrors())
	assert.Contains(t, errs.Fields(), "dataSource")
	assert.Contains(t, errs.Fields(), "granularity")
	assert.Contains(t, errs.Fields(), "aggregations")
	assert.Contains(t, buf.String(), "query validation failed")

	buf.Reset()
	b.DataSource("wikipedia").Granularity("day").LongSum("edits")
	assert.False(t, b.Validate().HasErrors())
	assert.Empty(t, buf.String())

	b.Having(having.Aggregation("edits").GreaterThan(1))
	assert.Equal(t, []string{"is not supported by type=timeseries"}, b.Validate().On("having"))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	b := New(WithClock(func() time.Time { return fixedNow }), WithLogger(logger.NewLogger(logger.DEBUG, &buf)))
	b.LongSum("a").LongSum("a")
	assert.Contains(t, buf.String(), "skip duplicate aggregation a")

	buf.Reset()
	b.PostAgg(postagg.Field("a").Div("b").As("c"))
	assert.Contains(t, buf.String(), "post-aggregation c requires b")
	assert.NotContains(t, buf.String(), "requires a")
}

func TestWithConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(`
dataSource: events/wikipedia
queryType: groupBy
granularity: PT1H
timeZone: Europe/Berlin
useCache: false
timeout: 30s
priority: 5
`))
	require.NoError(t, err)

	b := newTestBuilder(WithConfig(cfg))
	q := b.Query()
	assert.Equal(t, "wikipedia", q.DataSource)
	assert.Equal(t, query.GroupBy, q.QueryType)
	assert.JSONEq(t, `{"type":"period","period":"PT1H","timeZone":"Europe/Berlin"}`, field(t, b, "granularity"))
	assert.JSONEq(t, `{"timeout":30000,"priority":5,"useCache":false}`, field(t, b, "context"))
	assert.Len(t, q.Intervals, 1)
}
