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
	"github.com/georgewfraser/zetasql/sql/expression"
)

// Sort orders the input rows by its sort fields.
type Sort struct {
	Fields []expression.SortField
	Child  sql.Node
}

// NewSort creates a sort on top of the child.
func NewSort(fields []expression.SortField, child sql.Node) *Sort {
	return &Sort{Fields: fields, Child: child}
}

// Schema implements the Node interface.
func (s *Sort) Schema() sql.Schema { return s.Child.Schema() }

// Children implements the Node interface.
func (s *Sort) Children() []sql.Node { return []sql.Node{s.Child} }

// WithChildren implements the Node interface.
func (s *Sort) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), 1)
	}
	return NewSort(s.Fields, children[0]), nil
}

// Expressions implements the Expressioner interface.
func (s *Sort) Expressions() []sql.Expression {
	exprs := make([]sql.Expression, len(s.Fields))
	for i, f := range s.Fields {
		exprs[i] = f.Column
	}
	return exprs
}

// WithExpressions implements the Expressioner interface.
func (s *Sort) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != len(s.Fields) {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(exprs), len(s.Fields))
	}
	fields := make([]expression.SortField, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = expression.SortField{Column: exprs[i], Desc: f.Desc}
	}
	return NewSort(fields, s.Child), nil
}

func (s *Sort) String() string {
	strs := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		strs[i] = f.String()
	}
	return treeString(fmt.Sprintf("Sort(%s)", strings.Join(strs, ", ")), s.Child)
}

// Limit caps the number of rows produced, optionally skipping a prefix.
type Limit struct {
	Limit  sql.Expression
	Offset sql.Expression
	Child  sql.Node
}

// NewLimit creates a limit on top of the child. Offset may be nil.
func NewLimit(limit, offset sql.Expression, child sql.Node) *Limit {
	return &Limit{Limit: limit, Offset: offset, Child: child}
}

// Schema implements the Node interface.
func (l *Limit) Schema() sql.Schema { return l.Child.Schema() }

// Children implements the Node interface.
func (l *Limit) Children() []sql.Node { return []sql.Node{l.Child} }

// WithChildren implements the Node interface.
func (l *Limit) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(l, len(children), 1)
	}
	return NewLimit(l.Limit, l.Offset, children[0]), nil
}

func (l *Limit) String() string {
	if l.Offset != nil {
		return treeString(fmt.Sprintf("Limit(%s, offset: %s)", l.Limit, l.Offset), l.Child)
	}
	return treeString(fmt.Sprintf("Limit(%s)", l.Limit), l.Child)
}
