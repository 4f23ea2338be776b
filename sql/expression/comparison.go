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

// Comparison compares two expressions of a common type and produces a
// boolean.
type Comparison struct {
	BinaryExpression
	op string
}

// NewComparison creates a comparison with the given operator, one of
// =, !=, <, <=, > or >=.
func NewComparison(op string, left, right sql.Expression) *Comparison {
	return &Comparison{BinaryExpression{left, right}, op}
}

// NewEquals creates an equality comparison.
func NewEquals(left, right sql.Expression) *Comparison {
	return NewComparison("=", left, right)
}

// Op returns the comparison operator.
func (c *Comparison) Op() string { return c.op }

// Type implements the Expression interface.
func (c *Comparison) Type() sql.Type { return sql.Bool }

// WithChildren implements the Expression interface.
func (c *Comparison) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), 2)
	}
	return NewComparison(c.op, children[0], children[1]), nil
}

func (c *Comparison) String() string {
	return fmt.Sprintf("(%s %s %s)", c.Left, c.op, c.Right)
}
