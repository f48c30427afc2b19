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

// Package config loads builder defaults from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 查询构建默认配置
type Config struct {
	DataSource    string        `json:"dataSource" yaml:"dataSource"`       // 数据源
	QueryType     string        `json:"queryType" yaml:"queryType"`         // 查询类型
	Granularity   string        `json:"granularity" yaml:"granularity"`     // 简单粒度名或 ISO-8601 周期
	TimeZone      string        `json:"timeZone" yaml:"timeZone"`           // 周期粒度时区
	UseCache      *bool         `json:"useCache" yaml:"useCache"`           // context.useCache
	PopulateCache *bool         `json:"populateCache" yaml:"populateCache"` // context.populateCache
	Timeout       time.Duration `json:"timeout" yaml:"timeout"`             // context.timeout，0 表示不设置
	Priority      *int          `json:"priority" yaml:"priority"`           // context.priority
	LogLevel      string        `json:"logLevel" yaml:"logLevel"`           // DEBUG, INFO, WARN, ERROR, OFF
}

// Default 返回默认配置
func Default() Config {
	return Config{
		QueryType: "timeseries",
		TimeZone:  "UTC",
		LogLevel:  "WARN",
	}
}

// Parse 解析 YAML 配置，未出现的字段保留默认值
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Timeout < 0 {
		return Config{}, fmt.Errorf("parse config: timeout must not be negative")
	}
	return cfg, nil
}

// Load 从文件加载配置
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return Parse(data)
}
