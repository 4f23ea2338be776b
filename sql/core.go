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

package sql

import (
	"fmt"

	"gopkg.in/src-d/go-errors.v1"
)

// Expression is a resolved scalar expression. Expressions are immutable
// once built; WithChildren returns a copy.
type Expression interface {
	fmt.Stringer
	// Type returns the type of the value the expression produces.
	Type() Type
	// IsNullable returns whether the expression can produce NULL.
	IsNullable() bool
	// Children returns the immediate sub-expressions.
	Children() []Expression
	// WithChildren returns a copy of the expression with the given
	// children. The number of children must match Children().
	WithChildren(children ...Expression) (Expression, error)
}

// Node is a resolved relational operator.
type Node interface {
	fmt.Stringer
	// Schema returns the ordered columns the node produces.
	Schema() Schema
	// Children returns the immediate input nodes.
	Children() []Node
	// WithChildren returns a copy of the node with the given children.
	WithChildren(children ...Node) (Node, error)
}

// Expressioner is a node that holds scalar expressions in addition to
// its child nodes.
type Expressioner interface {
	Node
	// Expressions returns the scalar expressions the node holds.
	Expressions() []Expression
	// WithExpressions returns a copy of the node with the given
	// expressions.
	WithExpressions(exprs ...Expression) (Node, error)
}

// ErrInvalidChildrenNumber is returned by WithChildren implementations
// when handed the wrong number of children.
var ErrInvalidChildrenNumber = errors.NewKind("%T: invalid children number, got %d, expected %d")
