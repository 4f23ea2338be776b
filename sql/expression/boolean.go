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

package expression

import (
	"fmt"

	"github.com/georgewfraser/zetasql/sql"
)

// Not negates a boolean expression.
type Not struct {
	UnaryExpression
}

// NewNot creates a boolean negation.
func NewNot(expr sql.Expression) *Not {
	return &Not{UnaryExpression{expr}}
}

// Type implements the Expression interface.
func (n *Not) Type() sql.Type { return sql.Bool }

// WithChildren implements the Expression interface.
func (n *Not) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(n, len(children), 1)
	}
	return NewNot(children[0]), nil
}

func (n *Not) String() string { return fmt.Sprintf("NOT %s", n.Child) }

// And is a boolean conjunction.
type And struct {
	BinaryExpression
}

// NewAnd creates a conjunction of two expressions.
func NewAnd(left, right sql.Expression) *And {
	return &And{BinaryExpression{left, right}}
}

// Type implements the Expression interface.
func (a *And) Type() sql.Type { return sql.Bool }

// WithChildren implements the Expression interface.
func (a *And) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(a, len(children), 2)
	}
	return NewAnd(children[0], children[1]), nil
}

func (a *And) String() string { return fmt.Sprintf("(%s AND %s)", a.Left, a.Right) }

// Or is a boolean disjunction.
type Or struct {
	BinaryExpression
}

// NewOr creates a disjunction of two expressions.
func NewOr(left, right sql.Expression) *Or {
	return &Or{BinaryExpression{left, right}}
}

// Type implements the Expression interface.
func (o *Or) Type() sql.Type { return sql.Bool }

// WithChildren implements the Expression interface.
func (o *Or) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(o, len(children), 2)
	}
	return NewOr(children[0], children[1]), nil
}

func (o *Or) String() string { return fmt.Sprintf("(%s OR %s)", o.Left, o.Right) }
