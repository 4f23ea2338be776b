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

// Project computes a new column list from its input rows.
type Project struct {
	Projections []ComputedColumn
	Child       sql.Node
}

// NewProject creates a projection of the given columns on top of the
// child.
func NewProject(projections []ComputedColumn, child sql.Node) *Project {
	return &Project{Projections: projections, Child: child}
}

// Schema implements the Node interface.
func (p *Project) Schema() sql.Schema { return columnsOf(p.Projections) }

// Children implements the Node interface.
func (p *Project) Children() []sql.Node { return []sql.Node{p.Child} }

// WithChildren implements the Node interface.
func (p *Project) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), 1)
	}
	return NewProject(p.Projections, children[0]), nil
}

// Expressions implements the Expressioner interface.
func (p *Project) Expressions() []sql.Expression {
	exprs := make([]sql.Expression, len(p.Projections))
	for i, c := range p.Projections {
		exprs[i] = c.Expr
	}
	return exprs
}

// WithExpressions implements the Expressioner interface.
func (p *Project) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != len(p.Projections) {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(exprs), len(p.Projections))
	}
	cols := make([]ComputedColumn, len(p.Projections))
	for i, c := range p.Projections {
		cols[i] = ComputedColumn{Col: c.Col, Expr: exprs[i]}
	}
	return NewProject(cols, p.Child), nil
}

func (p *Project) String() string {
	return treeString(fmt.Sprintf("Project(%s)", formatColumns(p.Projections)), p.Child)
}
