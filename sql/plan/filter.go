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

// Filter keeps the input rows for which the condition is true.
type Filter struct {
	Condition sql.Expression
	Child     sql.Node
}

// NewFilter creates a filter on top of the child.
func NewFilter(condition sql.Expression, child sql.Node) *Filter {
	return &Filter{Condition: condition, Child: child}
}

// Schema implements the Node interface.
func (f *Filter) Schema() sql.Schema { return f.Child.Schema() }

// Children implements the Node interface.
func (f *Filter) Children() []sql.Node { return []sql.Node{f.Child} }

// WithChildren implements the Node interface.
func (f *Filter) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(f, len(children), 1)
	}
	return NewFilter(f.Condition, children[0]), nil
}

// Expressions implements the Expressioner interface.
func (f *Filter) Expressions() []sql.Expression {
	return []sql.Expression{f.Condition}
}

// WithExpressions implements the Expressioner interface.
func (f *Filter) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(f, len(exprs), 1)
	}
	return NewFilter(exprs[0], f.Child), nil
}

func (f *Filter) String() string {
	return treeString(fmt.Sprintf("Filter(%s)", f.Condition), f.Child)
}
