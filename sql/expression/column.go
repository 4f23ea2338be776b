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

// ColumnRef is a resolved reference to a column by id. Correlated
// references point at columns owned by an enclosing query.
type ColumnRef struct {
	col        sql.Column
	correlated bool
}

// NewColumnRef creates a reference to the given column.
func NewColumnRef(col sql.Column) *ColumnRef {
	return &ColumnRef{col: col}
}

// NewCorrelatedColumnRef creates a reference to a column of an
// enclosing query.
func NewCorrelatedColumnRef(col sql.Column) *ColumnRef {
	return &ColumnRef{col: col, correlated: true}
}

// Column returns the referenced column.
func (c *ColumnRef) Column() sql.Column { return c.col }

// ID returns the referenced column's id.
func (c *ColumnRef) ID() sql.ColumnID { return c.col.ID }

// Name returns the referenced column's name.
func (c *ColumnRef) Name() string { return c.col.Name }

// Table returns the name the column is visible under.
func (c *ColumnRef) Table() string { return c.col.Table }

// Correlated returns whether the column belongs to an enclosing query.
func (c *ColumnRef) Correlated() bool { return c.correlated }

// Type implements the Expression interface.
func (c *ColumnRef) Type() sql.Type { return c.col.Type }

// IsNullable implements the Expression interface.
func (c *ColumnRef) IsNullable() bool { return true }

// Children implements the Expression interface.
func (c *ColumnRef) Children() []sql.Expression { return nil }

// WithChildren implements the Expression interface.
func (c *ColumnRef) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), 0)
	}
	return c, nil
}

func (c *ColumnRef) String() string {
	if c.col.Table == "" {
		return fmt.Sprintf("%s#%d", c.col.Name, c.col.ID)
	}
	return fmt.Sprintf("%s.%s#%d", c.col.Table, c.col.Name, c.col.ID)
}
