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

// JoinType is the kind of a join.
type JoinType int

const (
	JoinInner JoinType = iota
	JoinCross
	JoinLeft
	JoinRight
	JoinFull
)

func (t JoinType) String() string {
	switch t {
	case JoinCross:
		return "CrossJoin"
	case JoinLeft:
		return "LeftJoin"
	case JoinRight:
		return "RightJoin"
	case JoinFull:
		return "FullJoin"
	default:
		return "InnerJoin"
	}
}

// Join combines two inputs. Cross joins carry a nil condition.
type Join struct {
	Type      JoinType
	Left      sql.Node
	Right     sql.Node
	Condition sql.Expression
}

// NewJoin creates a join of the two inputs.
func NewJoin(joinType JoinType, left, right sql.Node, condition sql.Expression) *Join {
	return &Join{Type: joinType, Left: left, Right: right, Condition: condition}
}

// Schema implements the Node interface. Left columns come first.
func (j *Join) Schema() sql.Schema {
	return append(j.Left.Schema().Copy(), j.Right.Schema()...)
}

// Children implements the Node interface.
func (j *Join) Children() []sql.Node { return []sql.Node{j.Left, j.Right} }

// WithChildren implements the Node interface.
func (j *Join) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(children), 2)
	}
	return NewJoin(j.Type, children[0], children[1], j.Condition), nil
}

// Expressions implements the Expressioner interface.
func (j *Join) Expressions() []sql.Expression {
	if j.Condition == nil {
		return nil
	}
	return []sql.Expression{j.Condition}
}

// WithExpressions implements the Expressioner interface.
func (j *Join) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	want := len(j.Expressions())
	if len(exprs) != want {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(exprs), want)
	}
	var cond sql.Expression
	if want == 1 {
		cond = exprs[0]
	}
	return NewJoin(j.Type, j.Left, j.Right, cond), nil
}

func (j *Join) String() string {
	if j.Condition == nil {
		return treeString(j.Type.String(), j.Left, j.Right)
	}
	return treeString(fmt.Sprintf("%s(%s)", j.Type, j.Condition), j.Left, j.Right)
}
