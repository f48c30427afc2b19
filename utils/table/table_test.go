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

package table

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFprint 测试表格输出
func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	Fprint(&buf, []string{"field", "message"}, [][]string{
		{"dataSource", "may not be blank"},
		{"aggregations[0].name"},
	})

	expected := "" +
		"+----------------------+------------------+\n" +
		"| field                | message          |\n" +
		"+----------------------+------------------+\n" +
		"| dataSource           | may not be blank |\n" +
		"| aggregations[0].name |                  |\n" +
		"+----------------------+------------------+\n" +
		"(2 rows)\n"
	assert.Equal(t, expected, buf.String())
}

func TestFprint_Empty(t *testing.T) {
	var buf bytes.Buffer
	Fprint(&buf, nil, nil)
	assert.Empty(t, buf.String(), "没有列时不输出")

	Fprint(&buf, []string{"a"}, nil)
	assert.Equal(t, "+------+\n| a    |\n+------+\n+------+\n(0 rows)\n", buf.String())
}

// TestFprintBorder 测试边框输出
func TestFprintBorder(t *testing.T) {
	var buf bytes.Buffer
	FprintBorder(&buf, []int{1, 3})
	assert.Equal(t, "+---+-----+\n", buf.String())

	buf.Reset()
	FprintBorder(&buf, []int{})
	assert.Equal(t, "+\n", buf.String())
}
