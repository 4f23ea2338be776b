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

// SetOpType is the kind of a set operation.
type SetOpType int

const (
	SetOpUnion SetOpType = iota
	SetOpIntersect
	SetOpExcept
)

func (t SetOpType) String() string {
	switch t {
	case SetOpIntersect:
		return "Intersect"
	case SetOpExcept:
		return "Except"
	default:
		return "Union"
	}
}

// SetOperation combines the rows of two or more inputs. All inputs
// produce the same number of columns; the operation's own schema
// carries fresh column ids at the common supertypes.
type SetOperation struct {
	Op       SetOpType
	Distinct bool
	Inputs   []sql.Node
	schema   sql.Schema
}

// NewSetOperation creates a set operation over the inputs with the
// given output schema.
func NewSetOperation(op SetOpType, distinct bool, schema sql.Schema, inputs ...sql.Node) *SetOperation {
	return &SetOperation{Op: op, Distinct: distinct, Inputs: inputs, schema: schema}
}

// Schema implements the Node interface.
func (s *SetOperation) Schema() sql.Schema { return s.schema }

// Children implements the Node interface.
func (s *SetOperation) Children() []sql.Node { return s.Inputs }

// WithChildren implements the Node interface.
func (s *SetOperation) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != len(s.Inputs) {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), len(s.Inputs))
	}
	return NewSetOperation(s.Op, s.Distinct, s.schema, children...), nil
}

func (s *SetOperation) String() string {
	kind := "ALL"
	if s.Distinct {
		kind = "DISTINCT"
	}
	return treeString(fmt.Sprintf("%s(%s)", s.Op, kind), s.Inputs...)
}
