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
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/rulego/druidql/config"
	"github.com/rulego/druidql/logger"
)

// Option 表示对 Builder 默认行为的修改配置。
// 通过函数式选项模式，用户可以灵活地配置构建器的时钟、日志和默认值。
type Option func(*Builder)

// WithLogger 设置自定义日志记录器。
// 构建器的去重、自动登记聚合等调试信息以及校验失败警告都写入该记录器。
//
// 参数:
//   - log: 实现了logger.Logger接口的日志记录器
//
// 示例:
//
//	customLogger := logger.NewLogger(logger.DEBUG, os.Stderr)
//	b := druidql.New(druidql.WithLogger(customLogger))
func WithLogger(log logger.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithLogLevel 设置日志级别。
// 作用于当前构建器使用的日志记录器，未设置 WithLogger 时即全局默认记录器。
//
// 参数:
//   - level: 日志级别，可选值：DEBUG, INFO, WARN, ERROR, OFF
//
// 示例:
//
//	// 设置为调试级别
//	b := druidql.New(druidql.WithLogLevel(logger.DEBUG))
//
//	// 关闭日志
//	b := druidql.New(druidql.WithLogLevel(logger.OFF))
func WithLogLevel(level logger.Level) Option {
	return func(b *Builder) {
		b.log.SetLevel(level)
	}
}

// WithLogOutput 设置日志输出目标。
//
// 参数:
//   - output: 日志输出目标，如os.Stdout、os.Stderr或文件
//   - level: 日志级别
//
// 示例:
//
//	logFile, _ := os.OpenFile("druidql.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
//	b := druidql.New(druidql.WithLogOutput(logFile, logger.INFO))
func WithLogOutput(output io.Writer, level logger.Level) Option {
	return func(b *Builder) {
		b.log = logger.NewLogger(level, output)
	}
}

// WithDiscardLog 禁用所有日志输出。
//
// 示例:
//
//	b := druidql.New(druidql.WithDiscardLog())
func WithDiscardLog() Option {
	return func(b *Builder) {
		b.log = logger.NewDiscardLogger()
	}
}

// WithClock 设置构建器使用的时钟。
// 默认区间和 Last 均以该时钟为准，测试中可固定为某一时刻。
//
// 参数:
//   - now: 返回当前时间的函数
//
// 示例:
//
//	fixed := time.Date(2013, 1, 26, 12, 0, 0, 0, time.UTC)
//	b := druidql.New(druidql.WithClock(func() time.Time { return fixed }))
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.clock = now
		}
	}
}

// WithConfig 以配置文件中的默认值初始化查询。
// 配置在所有选项之后应用，只覆盖配置中显式设置的字段。
//
// 参数:
//   - cfg: 由 config.Load 或 config.Parse 得到的配置
//
// 示例:
//
//	cfg, err := config.Load("druid.yaml")
//	if err != nil {
//		return err
//	}
//	b := druidql.New(druidql.WithConfig(cfg))
func WithConfig(cfg config.Config) Option {
	return func(b *Builder) {
		b.cfg = &cfg
	}
}

// WithRandomQueryID 为查询生成随机的 context.queryId，便于在 broker 侧追踪。
//
// 示例:
//
//	b := druidql.New(druidql.WithRandomQueryID())
func WithRandomQueryID() Option {
	return func(b *Builder) {
		b.QueryID(uuid.NewString())
	}
}

// WithQueryTimeout 设置 context.timeout。
//
// 参数:
//   - timeout: 查询超时时间，按毫秒写入
func WithQueryTimeout(timeout time.Duration) Option {
	return func(b *Builder) {
		b.Timeout(timeout)
	}
}
