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

package druidql

import (
	"fmt"
	"strings"
	"time"

	"github.com/rulego/druidql/aggregation"
	"github.com/rulego/druidql/config"
	"github.com/rulego/druidql/filter"
	"github.com/rulego/druidql/having"
	"github.com/rulego/druidql/logger"
	"github.com/rulego/druidql/postagg"
	"github.com/rulego/druidql/query"
	"github.com/rulego/druidql/utils/timex"
	"github.com/rulego/druidql/validation"
)

// Builder 以链式调用累积一个查询文档。
// 同名聚合只登记一次；后聚合引用的字段若尚无聚合，会自动补登记。
//
// Builder 不是并发安全的，每个并发任务应使用独立实例。
//
// 使用示例:
//
//	b := druidql.New(druidql.WithClock(clock))
//	b.DataSource("events/wikipedia").
//		GroupBy("page").
//		LongSum("edits").
//		Filter(filter.Dimension("lang").In("en", "de"))
//	data, err := b.JSON()
type Builder struct {
	query *query.Query
	clock func() time.Time
	log   logger.Logger
	cfg   *config.Config
}

// New 创建一个新的查询构建器。
// 默认查询类型为 timeseries，默认区间为当天 UTC 零点到当前时间。
//
// 参数:
//   - options: 可变长度的配置选项
//
// 示例:
//
//	// 默认构建器
//	b := druidql.New()
//
//	// 固定时钟，便于测试
//	b := druidql.New(druidql.WithClock(func() time.Time { return fixed }))
func New(options ...Option) *Builder {
	b := &Builder{
		query: query.New(query.Timeseries),
		clock: time.Now,
		log:   logger.GetDefault(),
	}
	for _, option := range options {
		option(b)
	}
	if b.cfg != nil {
		b.applyConfig(*b.cfg)
	}
	if len(b.query.Intervals) == 0 {
		now := b.clock().UTC()
		b.Interval(timex.StartOfDay(now), now)
	}
	return b
}

func (b *Builder) applyConfig(cfg config.Config) {
	if cfg.LogLevel != "" {
		b.log.SetLevel(logger.ParseLevel(cfg.LogLevel))
	}
	if cfg.DataSource != "" {
		b.DataSource(cfg.DataSource)
	}
	if cfg.QueryType != "" {
		b.QueryType(query.Type(cfg.QueryType))
	}
	if cfg.Granularity != "" {
		b.Granularity(cfg.Granularity, cfg.TimeZone)
	}
	if cfg.UseCache != nil {
		b.UseCache(*cfg.UseCache)
	}
	if cfg.PopulateCache != nil {
		b.PopulateCache(*cfg.PopulateCache)
	}
	if cfg.Timeout > 0 {
		b.Timeout(cfg.Timeout)
	}
	if cfg.Priority != nil {
		b.Priority(*cfg.Priority)
	}
}

// Query 返回正在构建的查询文档
func (b *Builder) Query() *query.Query {
	return b.query
}

// Validate 校验查询并返回全部错误，失败时记录 WARN 日志
func (b *Builder) Validate() validation.Errors {
	errs := b.query.Validate()
	if errs.HasErrors() {
		b.log.Warn("query validation failed: %s", errs.Error())
	}
	return errs
}

// JSON 序列化查询文档，不做校验
func (b *Builder) JSON() ([]byte, error) {
	return query.Marshal(b.query)
}

// ============ 查询类型 ============

// QueryType 设置查询类型
func (b *Builder) QueryType(t query.Type) *Builder {
	b.query.QueryType = t
	return b
}

func (b *Builder) Timeseries() *Builder {
	return b.QueryType(query.Timeseries)
}

// GroupBy 切换为 groupBy 查询并设置分组维度
func (b *Builder) GroupBy(dimensions ...string) *Builder {
	b.QueryType(query.GroupBy)
	b.query.Dimensions = make([]*query.Dimension, 0, len(dimensions))
	for _, d := range dimensions {
		b.query.Dimensions = append(b.query.Dimensions, query.NewDimension(d))
	}
	return b
}

// TopN 切换为 topN 查询
func (b *Builder) TopN(dimension, metric string, threshold int) *Builder {
	b.QueryType(query.TopN)
	b.query.Dimension = dimension
	b.query.Metric = metric
	b.query.Threshold = threshold
	return b
}

// Search 切换为 search 查询，结果总是按字典序排序。
// dimensions 为空时搜索全部维度，limit <= 0 时不设置。
func (b *Builder) Search(what string, dimensions []string, limit int) *Builder {
	b.QueryType(query.Search)
	if len(dimensions) > 0 {
		b.query.SearchDimensions = dimensions
	}
	if limit > 0 {
		b.query.Limit = limit
	}
	b.query.Sort = &query.SearchSort{Type: "lexicographic"}
	b.query.SearchQuery = &query.SearchQuery{Type: query.SearchInsensitiveContains, Value: what}
	return b
}

// Metadata 切换为 segmentMetadata 查询并关闭缓存
func (b *Builder) Metadata() *Builder {
	b.QueryType(query.SegmentMetadata)
	b.UseCache(false)
	b.PopulateCache(false)
	return b
}

// Select 切换为 select 查询
func (b *Builder) Select(dimensions, metrics []string, threshold int) *Builder {
	b.QueryType(query.Select)
	b.query.Dimensions = make([]*query.Dimension, 0, len(dimensions))
	for _, d := range dimensions {
		b.query.Dimensions = append(b.query.Dimensions, query.NewDimension(d))
	}
	b.query.Metrics = metrics
	b.query.PagingSpec = &query.PagingSpec{Threshold: threshold}
	return b
}

// TimeBoundary 切换为 timeBoundary 查询，bound 为空表示同时返回最小和最大时间
func (b *Builder) TimeBoundary(bound string) *Builder {
	b.QueryType(query.TimeBoundary)
	b.query.Bound = bound
	return b
}

func (b *Builder) DataSourceMetadata() *Builder {
	return b.QueryType(query.DataSourceMetadata)
}

// DataSource 设置数据源，只保留最后一个 "/" 之后的部分
func (b *Builder) DataSource(source string) *Builder {
	b.query.DataSource = source[strings.LastIndex(source, "/")+1:]
	return b
}

// ============ 时间 ============

// Interval 设置单个查询区间
func (b *Builder) Interval(from, to time.Time) *Builder {
	b.query.Intervals = []string{query.FormatInterval(from, to)}
	return b
}

// IntervalString 以 ISO-8601 字符串设置单个区间，接受省略精度的写法如 "2013-01-26T00"
func (b *Builder) IntervalString(from, to string) (*Builder, error) {
	return b.Intervals([][2]string{{from, to}})
}

// Intervals 设置多个区间
func (b *Builder) Intervals(pairs [][2]string) (*Builder, error) {
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		iv, err := query.NormalizeInterval(p[0], p[1])
		if err != nil {
			return b, err
		}
		out = append(out, iv)
	}
	b.query.Intervals = out
	return b, nil
}

// Last 设置区间为最近 d 时长
func (b *Builder) Last(d time.Duration) *Builder {
	now := b.clock()
	return b.Interval(now.Add(-d), now)
}

// Granularity 设置粒度。简单粒度名原样输出，其他值视为 ISO-8601 周期，
// 时区默认 UTC。
func (b *Builder) Granularity(name string, timeZone ...string) *Builder {
	tz := ""
	if len(timeZone) > 0 {
		tz = timeZone[0]
	}
	b.query.Granularity = query.NewGranularity(name, tz)
	return b
}

// ============ 上下文 ============

func (b *Builder) UseCache(v bool) *Builder {
	b.query.EnsureContext().UseCache = &v
	return b
}

func (b *Builder) PopulateCache(v bool) *Builder {
	b.query.EnsureContext().PopulateCache = &v
	return b
}

// Timeout 设置 context.timeout（毫秒）
func (b *Builder) Timeout(d time.Duration) *Builder {
	ms := d.Milliseconds()
	b.query.EnsureContext().Timeout = &ms
	return b
}

func (b *Builder) Priority(p int) *Builder {
	b.query.EnsureContext().Priority = &p
	return b
}

func (b *Builder) QueryID(id string) *Builder {
	b.query.EnsureContext().QueryID = id
	return b
}

// ============ 过滤与排序 ============

// Filter 添加过滤条件，多次调用以 and 合并
func (b *Builder) Filter(f *filter.Filter) *Builder {
	b.query.Filter = filter.Chain(b.query.Filter, f)
	return b
}

// FilterFunc 以回调构建过滤条件
//
// 示例:
//
//	b.FilterFunc(func(c filter.Context) *filter.Filter {
//		return c.Dim("a").Gt(100).And(c.Dim("b").Neq("x"))
//	})
func (b *Builder) FilterFunc(fn func(filter.Context) *filter.Filter) *Builder {
	return b.Filter(fn(filter.Context{}))
}

// FilterExpr 解析文本表达式并添加为过滤条件
func (b *Builder) FilterExpr(src string) (*Builder, error) {
	f, err := filter.Parse(src)
	if err != nil {
		return b, err
	}
	return b.Filter(f), nil
}

// FilterMap 按 map 构建过滤条件，mode 为 in（默认）或 nin
func (b *Builder) FilterMap(values map[string]interface{}, mode string) (*Builder, error) {
	f, err := filter.FromMap(values, mode)
	if err != nil {
		return b, err
	}
	return b.Filter(f), nil
}

// Having 添加 having 条件，多次调用以 and 合并
func (b *Builder) Having(h *having.Having) *Builder {
	b.query.Having = b.query.Having.Chain(h)
	return b
}

// HavingFunc 以回调构建 having 条件
func (b *Builder) HavingFunc(fn func(having.Context) *having.Having) *Builder {
	return b.Having(fn(having.Context{}))
}

// HavingExpr 解析文本表达式并添加为 having 条件
func (b *Builder) HavingExpr(src string) (*Builder, error) {
	h, err := having.Parse(src)
	if err != nil {
		return b, err
	}
	return b.Having(h), nil
}

// Limit 设置 groupBy 的 limitSpec
//
// 示例:
//
//	b.Limit(10, query.Asc("a"), query.Desc("b"))
func (b *Builder) Limit(limit int, columns ...*query.Column) *Builder {
	b.query.LimitSpec = query.NewLimitSpec(limit, columns...)
	return b
}

// ============ 聚合 ============

// add 登记聚合，同名聚合已存在时跳过
func (b *Builder) add(a *aggregation.Aggregation) bool {
	name := a.OutputName()
	if b.query.ContainsAggregation(name) {
		b.log.Debug("skip duplicate aggregation %s (%s)", name, a.Type)
		return false
	}
	b.query.Aggregations = append(b.query.Aggregations, a)
	return true
}

func (b *Builder) simple(t aggregation.Type, metrics []string) *Builder {
	for _, m := range metrics {
		if m == "" {
			continue
		}
		b.add(aggregation.New(t, m))
	}
	return b
}

func (b *Builder) Count(metrics ...string) *Builder {
	return b.simple(aggregation.Count, metrics)
}

func (b *Builder) LongSum(metrics ...string) *Builder {
	return b.simple(aggregation.LongSum, metrics)
}

// Sum 是 LongSum 的别名
func (b *Builder) Sum(metrics ...string) *Builder {
	return b.LongSum(metrics...)
}

func (b *Builder) DoubleSum(metrics ...string) *Builder {
	return b.simple(aggregation.DoubleSum, metrics)
}

func (b *Builder) Min(metrics ...string) *Builder {
	return b.simple(aggregation.Min, metrics)
}

func (b *Builder) Max(metrics ...string) *Builder {
	return b.simple(aggregation.Max, metrics)
}

func (b *Builder) HyperUnique(metrics ...string) *Builder {
	return b.simple(aggregation.HyperUnique, metrics)
}

func (b *Builder) DoubleFirst(metrics ...string) *Builder {
	return b.simple(aggregation.DoubleFirst, metrics)
}

func (b *Builder) DoubleLast(metrics ...string) *Builder {
	return b.simple(aggregation.DoubleLast, metrics)
}

func (b *Builder) LongFirst(metrics ...string) *Builder {
	return b.simple(aggregation.LongFirst, metrics)
}

func (b *Builder) LongLast(metrics ...string) *Builder {
	return b.simple(aggregation.LongLast, metrics)
}

func (b *Builder) FloatFirst(metrics ...string) *Builder {
	return b.simple(aggregation.FloatFirst, metrics)
}

func (b *Builder) FloatLast(metrics ...string) *Builder {
	return b.simple(aggregation.FloatLast, metrics)
}

func (b *Builder) StringFirst(metrics ...string) *Builder {
	return b.simple(aggregation.StringFirst, metrics)
}

func (b *Builder) StringLast(metrics ...string) *Builder {
	return b.simple(aggregation.StringLast, metrics)
}

// Aggregate 以任意类型登记单列聚合，类型名接受 long_sum 或 longSum 写法
func (b *Builder) Aggregate(aggType string, metrics ...string) (*Builder, error) {
	t, err := aggregation.ParseType(aggType)
	if err != nil {
		return b, err
	}
	return b.simple(t, metrics), nil
}

// Cardinality 统计维度组合的基数
func (b *Builder) Cardinality(name string, dimensions []string, byRow bool) *Builder {
	b.add(aggregation.NewCardinality(name, dimensions, byRow))
	return b
}

// JSAggregation 登记 javascript 聚合，脚本原样输出
func (b *Builder) JSAggregation(name string, columns []string, fns aggregation.Functions) *Builder {
	b.add(aggregation.NewJavascript(name, columns, fns))
	return b
}

// ThetaSketch 在 metric 上登记名为 name 的 theta sketch 聚合
func (b *Builder) ThetaSketch(metric, name string) *Builder {
	b.add(aggregation.NewThetaSketch(metric, name))
	return b
}

// FilteredAggregation 登记过滤聚合，以内部聚合名去重
//
// 示例:
//
//	b.FilteredAggregation("clicks", "en_clicks", aggregation.LongSum,
//		filter.Dimension("lang").Eq("en"))
func (b *Builder) FilteredAggregation(metric, name string, aggType aggregation.Type, f *filter.Filter) *Builder {
	b.add(aggregation.NewFiltered(metric, name, aggType, f))
	return b
}

// FilteredAggregationFunc 同 FilteredAggregation，过滤条件由闭包构造
//
// 示例:
//
//	b.FilteredAggregationFunc("clicks", "en_clicks", aggregation.LongSum, func(c filter.Context) *filter.Filter {
//		return c.Dim("lang").Eq("en").And(c.Dim("bot").Neq(true))
//	})
func (b *Builder) FilteredAggregationFunc(metric, name string, aggType aggregation.Type, fn func(filter.Context) *filter.Filter) *Builder {
	return b.FilteredAggregation(metric, name, aggType, fn(filter.Context{}))
}

// Histogram 登记 approxHistogramFold 聚合 raw_<metric> 以及对应的直方图后聚合。
// strategy 为空时使用 equalBuckets。
func (b *Builder) Histogram(metric, strategy string, options map[string]interface{}) (*Builder, error) {
	if strategy == "" {
		strategy = postagg.HistogramEqualBuckets
	}
	fold := aggregation.NewApproxHistogramFold(metric)
	p, err := postagg.Histogram(strategy, metric, fold.Name, options)
	if err != nil {
		return b, err
	}
	b.add(fold)
	b.query.PostAggregations = append(b.query.PostAggregations, p)
	return b, nil
}

// Histograms 为每个 metric 登记 equalBuckets 直方图
func (b *Builder) Histograms(metrics ...string) (*Builder, error) {
	for _, m := range metrics {
		if _, err := b.Histogram(m, postagg.HistogramEqualBuckets, nil); err != nil {
			return b, err
		}
	}
	return b, nil
}

// ============ 后聚合 ============

// PostAgg 添加命名后聚合，引用的字段若无聚合则自动登记 longSum
//
// 示例:
//
//	b.PostAgg(postagg.Field("clicks").Div("impressions").Mul(1000).As("ctr"))
func (b *Builder) PostAgg(p *postagg.PostAggregation) *Builder {
	return b.PostAggWith(aggregation.LongSum, p)
}

// PostAggWith 与 PostAgg 相同，但自动登记的聚合类型为 t
func (b *Builder) PostAggWith(t aggregation.Type, p *postagg.PostAggregation) *Builder {
	if p == nil {
		return b
	}
	b.query.PostAggregations = append(b.query.PostAggregations, p)
	for _, name := range p.RequiredFieldNames() {
		if b.add(aggregation.New(t, name)) {
			b.log.Debug("post-aggregation %s requires %s, registered %s", p.Name, name, t)
		}
	}
	return b
}

// PostAggExpr 解析算术表达式，命名为 name 后添加
func (b *Builder) PostAggExpr(name, src string) (*Builder, error) {
	p, err := postagg.Parse(src)
	if err != nil {
		return b, err
	}
	return b.PostAgg(p.As(name)), nil
}

// PostAggJS 添加 javascript 后聚合
func (b *Builder) PostAggJS(name, src string) (*Builder, error) {
	p, err := postagg.JS(src)
	if err != nil {
		return b, fmt.Errorf("post-aggregation %s: %w", name, err)
	}
	return b.PostAgg(p.As(name)), nil
}

// ThetaSketchPostAgg 添加 theta sketch 集合运算的估计值，不自动登记聚合
func (b *Builder) ThetaSketchPostAgg(name, fn string, fields ...string) *Builder {
	b.query.PostAggregations = append(b.query.PostAggregations, postagg.ThetaSketch(name, fn, fields...))
	return b
}
