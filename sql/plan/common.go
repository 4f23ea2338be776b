// Copyright 2026 George Fraser
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package plan

import (
	"fmt"
	"strings"

	"github.com/georgewfraser/zetasql/sql"
)

// ComputedColumn binds an output column to the expression that
// produces it.
type ComputedColumn struct {
	Col  sql.Column
	Expr sql.Expression
}

func (c ComputedColumn) String() string {
	return fmt.Sprintf("%s#%d := %s", c.Col.Name, c.Col.ID, c.Expr)
}

// columnsOf extracts the schema of a computed column list.
func columnsOf(cols []ComputedColumn) sql.Schema {
	out := make(sql.Schema, len(cols))
	for i, c := range cols {
		out[i] = c.Col
	}
	return out
}

func formatColumns(cols []ComputedColumn) string {
	strs := make([]string, len(cols))
	for i, c := range cols {
		strs[i] = c.String()
	}
	return strings.Join(strs, ", ")
}

// treeString renders a node header followed by its children, indented
// one level.
func treeString(header string, children ...sql.Node) string {
	var sb strings.Builder
	sb.WriteString(header)
	for _, child := range children {
		for _, line := range strings.Split(child.String(), "\n") {
			sb.WriteString("\n    ")
			sb.WriteString(line)
		}
	}
	return sb.String()
}
