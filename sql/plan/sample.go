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

// Sample reads a random subset of its input, either a percentage of
// rows or a fixed row count.
type Sample struct {
	Method string
	// Percent or Rows is set, not both.
	Percent sql.Expression
	Rows    sql.Expression
	Child   sql.Node
}

// NewPercentSample creates a percentage sample of the child.
func NewPercentSample(method string, percent sql.Expression, child sql.Node) *Sample {
	return &Sample{Method: method, Percent: percent, Child: child}
}

// NewRowSample creates a fixed-size sample of the child.
func NewRowSample(method string, rows sql.Expression, child sql.Node) *Sample {
	return &Sample{Method: method, Rows: rows, Child: child}
}

// Schema implements the Node interface.
func (s *Sample) Schema() sql.Schema { return s.Child.Schema() }

// Children implements the Node interface.
func (s *Sample) Children() []sql.Node { return []sql.Node{s.Child} }

// WithChildren implements the Node interface.
func (s *Sample) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), 1)
	}
	ns := *s
	ns.Child = children[0]
	return &ns, nil
}

func (s *Sample) String() string {
	if s.Percent != nil {
		return treeString(fmt.Sprintf("Sample(%s, %s PERCENT)", s.Method, s.Percent), s.Child)
	}
	return treeString(fmt.Sprintf("Sample(%s, %s ROWS)", s.Method, s.Rows), s.Child)
}
