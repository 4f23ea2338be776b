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

	"github.com/georgewfraser/zetasql/sql"
)

// GroupBy groups the input rows by its grouping columns and evaluates
// aggregate functions over each group. A GroupBy with no aggregates
// and every input column as a grouping key is how DISTINCT is planned.
type GroupBy struct {
	Grouping   []ComputedColumn
	Aggregates []ComputedColumn
	Child      sql.Node
}

// NewGroupBy creates a grouping operator on top of the child.
func NewGroupBy(grouping, aggregates []ComputedColumn, child sql.Node) *GroupBy {
	return &GroupBy{Grouping: grouping, Aggregates: aggregates, Child: child}
}

// Schema implements the Node interface. Grouping keys come first,
// aggregates after.
func (g *GroupBy) Schema() sql.Schema {
	return append(columnsOf(g.Grouping), columnsOf(g.Aggregates)...)
}

// Children implements the Node interface.
func (g *GroupBy) Children() []sql.Node { return []sql.Node{g.Child} }

// WithChildren implements the Node interface.
func (g *GroupBy) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(g, len(children), 1)
	}
	return NewGroupBy(g.Grouping, g.Aggregates, children[0]), nil
}

// Expressions implements the Expressioner interface.
func (g *GroupBy) Expressions() []sql.Expression {
	exprs := make([]sql.Expression, 0, len(g.Grouping)+len(g.Aggregates))
	for _, c := range g.Grouping {
		exprs = append(exprs, c.Expr)
	}
	for _, c := range g.Aggregates {
		exprs = append(exprs, c.Expr)
	}
	return exprs
}

// WithExpressions implements the Expressioner interface.
func (g *GroupBy) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != len(g.Grouping)+len(g.Aggregates) {
		return nil, sql.ErrInvalidChildrenNumber.New(g, len(exprs), len(g.Grouping)+len(g.Aggregates))
	}
	grouping := make([]ComputedColumn, len(g.Grouping))
	for i, c := range g.Grouping {
		grouping[i] = ComputedColumn{Col: c.Col, Expr: exprs[i]}
	}
	aggregates := make([]ComputedColumn, len(g.Aggregates))
	for i, c := range g.Aggregates {
		aggregates[i] = ComputedColumn{Col: c.Col, Expr: exprs[len(g.Grouping)+i]}
	}
	return NewGroupBy(grouping, aggregates, g.Child), nil
}

func (g *GroupBy) String() string {
	return treeString(fmt.Sprintf("GroupBy(group: [%s], aggregate: [%s])",
		formatColumns(g.Grouping), formatColumns(g.Aggregates)), g.Child)
}
