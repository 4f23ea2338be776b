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

// Cast converts its child to another type at evaluation time. Casts of
// literals are folded during resolution instead.
type Cast struct {
	UnaryExpression
	to sql.Type
}

// NewCast creates a cast to the given type.
func NewCast(expr sql.Expression, to sql.Type) *Cast {
	return &Cast{UnaryExpression{expr}, to}
}

// Type implements the Expression interface.
func (c *Cast) Type() sql.Type { return c.to }

// WithChildren implements the Expression interface.
func (c *Cast) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), 1)
	}
	return NewCast(children[0], c.to), nil
}

func (c *Cast) String() string {
	return fmt.Sprintf("CAST(%s AS %s)", c.Child, c.to)
}
