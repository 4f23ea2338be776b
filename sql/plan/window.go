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

// Window evaluates analytic function calls over the input rows and
// appends their results as new columns. The input columns pass
// through unchanged.
type Window struct {
	Functions []ComputedColumn
	Child     sql.Node
}

// NewWindow creates a window operator on top of the child.
func NewWindow(functions []ComputedColumn, child sql.Node) *Window {
	return &Window{Functions: functions, Child: child}
}

// Schema implements the Node interface.
func (w *Window) Schema() sql.Schema {
	return append(w.Child.Schema().Copy(), columnsOf(w.Functions)...)
}

// Children implements the Node interface.
func (w *Window) Children() []sql.Node { return []sql.Node{w.Child} }

// WithChildren implements the Node interface.
func (w *Window) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(w, len(children), 1)
	}
	return NewWindow(w.Functions, children[0]), nil
}

// Expressions implements the Expressioner interface.
func (w *Window) Expressions() []sql.Expression {
	exprs := make([]sql.Expression, len(w.Functions))
	for i, c := range w.Functions {
		exprs[i] = c.Expr
	}
	return exprs
}

// WithExpressions implements the Expressioner interface.
func (w *Window) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != len(w.Functions) {
		return nil, sql.ErrInvalidChildrenNumber.New(w, len(exprs), len(w.Functions))
	}
	cols := make([]ComputedColumn, len(w.Functions))
	for i, c := range w.Functions {
		cols[i] = ComputedColumn{Col: c.Col, Expr: exprs[i]}
	}
	return NewWindow(cols, w.Child), nil
}

func (w *Window) String() string {
	return treeString(fmt.Sprintf("Window(%s)", formatColumns(w.Functions)), w.Child)
}
