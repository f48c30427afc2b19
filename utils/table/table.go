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
	"fmt"
	"io"
	"strings"
)

// Fprint writes rows as a bordered text table. Columns keep the given order;
// rows shorter than columns are padded with empty cells.
func Fprint(w io.Writer, columns []string, rows [][]string) {
	if len(columns) == 0 {
		return
	}

	// Calculate maximum width for each column
	colWidths := make([]int, len(columns))
	for i, col := range columns {
		colWidths[i] = len(col)
		for _, row := range rows {
			if i < len(row) && len(row[i]) > colWidths[i] {
				colWidths[i] = len(row[i])
			}
		}
		// Minimum width is 4
		if colWidths[i] < 4 {
			colWidths[i] = 4
		}
	}

	FprintBorder(w, colWidths)
	fprintRow(w, colWidths, columns)
	FprintBorder(w, colWidths)
	for _, row := range rows {
		fprintRow(w, colWidths, row)
	}
	FprintBorder(w, colWidths)

	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

func fprintRow(w io.Writer, colWidths []int, cells []string) {
	var b strings.Builder
	b.WriteString("|")
	for i, width := range colWidths {
		val := ""
		if i < len(cells) {
			val = cells[i]
		}
		fmt.Fprintf(&b, " %-*s |", width, val)
	}
	b.WriteString("\n")
	io.WriteString(w, b.String())
}

// FprintBorder writes a table border for the given column widths.
func FprintBorder(w io.Writer, columnWidths []int) {
	var b strings.Builder
	b.WriteString("+")
	for _, width := range columnWidths {
		b.WriteString(strings.Repeat("-", width+2))
		b.WriteString("+")
	}
	b.WriteString("\n")
	io.WriteString(w, b.String())
}
