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

// RecursiveCte evaluates a recursive WITH entry: the Init term runs
// once, then the Recursive term runs repeatedly over the previous
// iteration's rows until it produces none. The schema comes from the
// Init term; the Recursive term's RecursiveTable reads it.
type RecursiveCte struct {
	Name string
	// UniqueName disambiguates recursive queries that reuse an alias
	// within one statement.
	UniqueName string
	// Distinct deduplicates across iterations, as UNION DISTINCT
	// requires.
	Distinct  bool
	Init      sql.Node
	Recursive sql.Node
	schema    sql.Schema
}

// NewRecursiveCte creates a recursive query node.
func NewRecursiveCte(name, uniqueName string, distinct bool, schema sql.Schema, init, recursive sql.Node) *RecursiveCte {
	return &RecursiveCte{
		Name:       name,
		UniqueName: uniqueName,
		Distinct:   distinct,
		Init:       init,
		Recursive:  recursive,
		schema:     schema,
	}
}

// Schema implements the Node interface.
func (r *RecursiveCte) Schema() sql.Schema { return r.schema }

// Children implements the Node interface.
func (r *RecursiveCte) Children() []sql.Node { return []sql.Node{r.Init, r.Recursive} }

// WithChildren implements the Node interface.
func (r *RecursiveCte) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(r, len(children), 2)
	}
	nr := *r
	nr.Init, nr.Recursive = children[0], children[1]
	return &nr, nil
}

func (r *RecursiveCte) String() string {
	kind := "ALL"
	if r.Distinct {
		kind = "DISTINCT"
	}
	return treeString(fmt.Sprintf("RecursiveCte(%s, %s)", r.UniqueName, kind), r.Init, r.Recursive)
}
