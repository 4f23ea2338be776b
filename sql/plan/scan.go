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
	"strings"

	"github.com/georgewfraser/zetasql/sql"
)

// ResolvedTable is a scan of a catalog table. Its schema carries the
// column ids allocated for this particular reference; two scans of the
// same table never share ids.
type ResolvedTable struct {
	Table  *sql.Table
	schema sql.Schema
}

// NewResolvedTable creates a scan of the given table exposing the
// given columns.
func NewResolvedTable(table *sql.Table, schema sql.Schema) *ResolvedTable {
	return &ResolvedTable{Table: table, schema: schema}
}

// Schema implements the Node interface.
func (t *ResolvedTable) Schema() sql.Schema { return t.schema }

// Children implements the Node interface.
func (t *ResolvedTable) Children() []sql.Node { return nil }

// WithChildren implements the Node interface.
func (t *ResolvedTable) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(t, len(children), 0)
	}
	return t, nil
}

func (t *ResolvedTable) String() string {
	return fmt.Sprintf("TableScan(%s)", t.Table.Name)
}

// SingleRow produces exactly one row with no columns. It is the input
// of a SELECT with no FROM clause.
type SingleRow struct{}

// NewSingleRow creates a one-row zero-column input.
func NewSingleRow() *SingleRow { return &SingleRow{} }

// Schema implements the Node interface.
func (*SingleRow) Schema() sql.Schema { return nil }

// Children implements the Node interface.
func (*SingleRow) Children() []sql.Node { return nil }

// WithChildren implements the Node interface.
func (s *SingleRow) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), 0)
	}
	return s, nil
}

func (*SingleRow) String() string { return "SingleRow" }

// RecursiveTable is the self-reference inside the recursive term of a
// recursive query. It reads the rows produced by the previous
// iteration.
type RecursiveTable struct {
	Name   string
	schema sql.Schema
}

// NewRecursiveTable creates a self-reference scan with the given
// columns.
func NewRecursiveTable(name string, schema sql.Schema) *RecursiveTable {
	return &RecursiveTable{Name: name, schema: schema}
}

// Schema implements the Node interface.
func (t *RecursiveTable) Schema() sql.Schema { return t.schema }

// Children implements the Node interface.
func (t *RecursiveTable) Children() []sql.Node { return nil }

// WithChildren implements the Node interface.
func (t *RecursiveTable) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(t, len(children), 0)
	}
	return t, nil
}

func (t *RecursiveTable) String() string {
	return fmt.Sprintf("RecursiveTable(%s)", t.Name)
}

// TableFunctionScan is a call of a table function in a FROM clause.
type TableFunctionScan struct {
	Name   string
	args   []sql.Expression
	schema sql.Schema
}

// NewTableFunctionScan creates a table function scan.
func NewTableFunctionScan(name string, schema sql.Schema, args ...sql.Expression) *TableFunctionScan {
	return &TableFunctionScan{Name: name, args: args, schema: schema}
}

// Schema implements the Node interface.
func (t *TableFunctionScan) Schema() sql.Schema { return t.schema }

// Children implements the Node interface.
func (t *TableFunctionScan) Children() []sql.Node { return nil }

// WithChildren implements the Node interface.
func (t *TableFunctionScan) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(t, len(children), 0)
	}
	return t, nil
}

// Expressions implements the Expressioner interface.
func (t *TableFunctionScan) Expressions() []sql.Expression { return t.args }

// WithExpressions implements the Expressioner interface.
func (t *TableFunctionScan) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != len(t.args) {
		return nil, sql.ErrInvalidChildrenNumber.New(t, len(exprs), len(t.args))
	}
	return NewTableFunctionScan(t.Name, t.schema, exprs...), nil
}

func (t *TableFunctionScan) String() string {
	strs := make([]string, len(t.args))
	for i, arg := range t.args {
		strs[i] = arg.String()
	}
	return fmt.Sprintf("TableFunctionScan(%s(%s))", t.Name, strings.Join(strs, ", "))
}
