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

/*
Package druidql 是一个用于构建和校验 Apache Druid JSON 查询的库。

druidql 以链式调用累积查询文档，覆盖 timeseries、groupBy、topN、search、select、
segmentMetadata、timeBoundary 和 dataSourceMetadata 八种查询类型，并在发送前按
查询类型校验每个字段是否合法。

# 核心特性

• 链式构建 - 聚合、后聚合、过滤、having、limitSpec 与 context 逐步累积
• 自动补全 - 后聚合引用的字段若无聚合，自动登记 longSum（或指定类型）
• 去重 - 同名聚合只登记一次
• 表达式 - 过滤、having 和后聚合均可用文本表达式书写
• 条件校验 - 每个字段只在允许的查询类型下出现，所有错误一次性返回
• JSON Schema - query.Schema() 描述完整的查询文档

# 入门示例

	b := druidql.New()
	b.DataSource("events/wikipedia").
		GroupBy("page", "lang").
		Granularity("PT1H", "Europe/Berlin").
		PostAgg(postagg.Field("clicks").Div("impressions").Mul(1000).As("ctr")).
		Filter(filter.Dimension("lang").In("en", "de")).
		Having(having.Aggregation("clicks").GreaterThan(100)).
		Limit(10, query.Desc("clicks"))

	if errs := b.Validate(); errs.HasErrors() {
		return errs
	}
	data, err := b.JSON()

上例中 ctr 引用了 clicks 和 impressions，二者自动登记为 longSum 聚合。

# 表达式

过滤条件：

	b.FilterExpr(`lang in ["en", "de"] && !(page == "Main") && views > 100`)

having 条件：

	b.HavingExpr(`clicks > 100 || impressions == 0`)

后聚合：

	b.PostAggExpr("ctr", "clicks / impressions * 1000")

# 区间

默认区间为当天 UTC 零点到当前时间。IntervalString 接受省略精度的 ISO-8601 写法，
例如 "2013-01-26T00"，输出时统一补全为带时区偏移的完整格式。

# 日志配置

	// 调试级别，输出去重和自动登记信息
	b := druidql.New(druidql.WithLogLevel(logger.DEBUG))

	// 完全关闭日志
	b := druidql.New(druidql.WithDiscardLog())

# 配置文件

	cfg, err := config.Load("druid.yaml")
	b := druidql.New(druidql.WithConfig(cfg))
*/
package druidql
