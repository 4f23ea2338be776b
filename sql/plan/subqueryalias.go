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

// SubqueryAlias gives a name to a subquery used as a table. Its schema
// exposes the subquery's columns under the alias with fresh column
// ids; each reference to a WITH alias gets its own SubqueryAlias with
// its own ids.
type SubqueryAlias struct {
	Name  string
	Child sql.Node
	// IsCTE marks expansions of WITH aliases, as opposed to inline
	// derived tables.
	IsCTE  bool
	schema sql.Schema
}

// NewSubqueryAlias creates a derived table with the given name and
// outward schema.
func NewSubqueryAlias(name string, schema sql.Schema, child sql.Node) *SubqueryAlias {
	return &SubqueryAlias{Name: name, Child: child, schema: schema}
}

// AsCTE marks the alias as an expansion of a WITH entry.
func (s *SubqueryAlias) AsCTE() *SubqueryAlias {
	ns := *s
	ns.IsCTE = true
	return &ns
}

// Schema implements the Node interface.
func (s *SubqueryAlias) Schema() sql.Schema { return s.schema }

// Children implements the Node interface.
func (s *SubqueryAlias) Children() []sql.Node { return []sql.Node{s.Child} }

// WithChildren implements the Node interface.
func (s *SubqueryAlias) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), 1)
	}
	ns := *s
	ns.Child = children[0]
	return &ns, nil
}

func (s *SubqueryAlias) String() string {
	return treeString(fmt.Sprintf("SubqueryAlias(%s)", s.Name), s.Child)
}
