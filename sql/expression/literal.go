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

import "github.com/georgewfraser/zetasql/sql"

// Literal is a constant value.
type Literal struct {
	val     sql.Value
	untyped bool
}

// NewLiteral creates a literal expression holding the given value.
func NewLiteral(val sql.Value) *Literal {
	return &Literal{val: val}
}

// NewUntypedNull creates a NULL literal that has not yet been coerced
// to a concrete type. It renders as INT64 until retyped.
func NewUntypedNull() *Literal {
	return &Literal{val: sql.Null(sql.Int64), untyped: true}
}

// Value returns the literal value.
func (l *Literal) Value() sql.Value { return l.val }

// IsUntypedNull returns whether this is a NULL with no type of its
// own.
func (l *Literal) IsUntypedNull() bool { return l.untyped }

// WithType returns a copy of the literal retyped as a NULL of the given
// type. Only meaningful for untyped NULLs.
func (l *Literal) WithType(t sql.Type) *Literal {
	return &Literal{val: sql.Null(t)}
}

// Type implements the Expression interface.
func (l *Literal) Type() sql.Type { return l.val.Type() }

// IsNullable implements the Expression interface.
func (l *Literal) IsNullable() bool { return l.val.IsNull() }

// Children implements the Expression interface.
func (l *Literal) Children() []sql.Expression { return nil }

// WithChildren implements the Expression interface.
func (l *Literal) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(l, len(children), 0)
	}
	return l, nil
}

func (l *Literal) String() string { return l.val.String() }
