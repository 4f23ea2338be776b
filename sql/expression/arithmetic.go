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

// Arithmetic applies a binary arithmetic operator to two expressions
// of a common type.
type Arithmetic struct {
	BinaryExpression
	op  string
	typ sql.Type
}

// NewArithmetic creates an arithmetic expression with the given
// operator and result type.
func NewArithmetic(op string, left, right sql.Expression, typ sql.Type) *Arithmetic {
	return &Arithmetic{BinaryExpression{left, right}, op, typ}
}

// Op returns the arithmetic operator.
func (a *Arithmetic) Op() string { return a.op }

// Type implements the Expression interface.
func (a *Arithmetic) Type() sql.Type { return a.typ }

// WithChildren implements the Expression interface.
func (a *Arithmetic) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(a, len(children), 2)
	}
	return NewArithmetic(a.op, children[0], children[1], a.typ), nil
}

func (a *Arithmetic) String() string {
	return fmt.Sprintf("(%s %s %s)", a.Left, a.op, a.Right)
}

// Negate is unary arithmetic negation.
type Negate struct {
	UnaryExpression
}

// NewNegate creates a negation of the given expression.
func NewNegate(expr sql.Expression) *Negate {
	return &Negate{UnaryExpression{expr}}
}

// Type implements the Expression interface.
func (n *Negate) Type() sql.Type { return n.Child.Type() }

// WithChildren implements the Expression interface.
func (n *Negate) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(n, len(children), 1)
	}
	return NewNegate(children[0]), nil
}

func (n *Negate) String() string { return fmt.Sprintf("(-%s)", n.Child) }
