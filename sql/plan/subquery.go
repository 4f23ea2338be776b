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

// Subquery is a query used as a scalar expression. Scalar subqueries
// produce the single column of their query; EXISTS subqueries produce
// a boolean.
type Subquery struct {
	Query sql.Node
	// Correlated lists the outer columns the query references, in
	// first-use order.
	Correlated []sql.Column
	exists     bool
}

// NewSubquery creates a scalar subquery expression.
func NewSubquery(query sql.Node, correlated []sql.Column) *Subquery {
	return &Subquery{Query: query, Correlated: correlated}
}

// NewExistsSubquery creates an EXISTS test over the query.
func NewExistsSubquery(query sql.Node, correlated []sql.Column) *Subquery {
	return &Subquery{Query: query, Correlated: correlated, exists: true}
}

// IsExists returns whether this is an EXISTS test.
func (s *Subquery) IsExists() bool { return s.exists }

// Type implements the Expression interface.
func (s *Subquery) Type() sql.Type {
	if s.exists {
		return sql.Bool
	}
	return s.Query.Schema()[0].Type
}

// IsNullable implements the Expression interface.
func (s *Subquery) IsNullable() bool { return !s.exists }

// Children implements the Expression interface.
func (s *Subquery) Children() []sql.Expression { return nil }

// WithChildren implements the Expression interface.
func (s *Subquery) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), 0)
	}
	return s, nil
}

func (s *Subquery) String() string {
	if s.exists {
		return fmt.Sprintf("EXISTS (%s)", s.Query)
	}
	return fmt.Sprintf("(%s)", s.Query)
}

// InSubquery tests whether a value appears in the single column of a
// subquery.
type InSubquery struct {
	Left     sql.Expression
	Subquery *Subquery
	negated  bool
}

// NewInSubquery creates an IN test of left against the subquery's
// column.
func NewInSubquery(left sql.Expression, sub *Subquery, negated bool) *InSubquery {
	return &InSubquery{Left: left, Subquery: sub, negated: negated}
}

// IsNegated returns whether this is a NOT IN test.
func (s *InSubquery) IsNegated() bool { return s.negated }

// Type implements the Expression interface.
func (s *InSubquery) Type() sql.Type { return sql.Bool }

// IsNullable implements the Expression interface.
func (s *InSubquery) IsNullable() bool { return true }

// Children implements the Expression interface.
func (s *InSubquery) Children() []sql.Expression { return []sql.Expression{s.Left} }

// WithChildren implements the Expression interface.
func (s *InSubquery) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), 1)
	}
	return &InSubquery{Left: children[0], Subquery: s.Subquery, negated: s.negated}, nil
}

func (s *InSubquery) String() string {
	if s.negated {
		return fmt.Sprintf("%s NOT IN (%s)", s.Left, s.Subquery.Query)
	}
	return fmt.Sprintf("%s IN (%s)", s.Left, s.Subquery.Query)
}
