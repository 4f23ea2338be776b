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

// GetStructField reads one field out of a struct expression.
type GetStructField struct {
	UnaryExpression
	name  string
	index int
	typ   sql.Type
}

// NewGetStructField creates a field access on the given struct
// expression.
func NewGetStructField(child sql.Expression, name string, index int, typ sql.Type) *GetStructField {
	return &GetStructField{UnaryExpression{child}, name, index, typ}
}

// Name returns the accessed field's name.
func (g *GetStructField) Name() string { return g.name }

// Index returns the accessed field's position.
func (g *GetStructField) Index() int { return g.index }

// Type implements the Expression interface.
func (g *GetStructField) Type() sql.Type { return g.typ }

// WithChildren implements the Expression interface.
func (g *GetStructField) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(g, len(children), 1)
	}
	return NewGetStructField(children[0], g.name, g.index, g.typ), nil
}

func (g *GetStructField) String() string {
	return fmt.Sprintf("%s.%s", g.Child, g.name)
}
