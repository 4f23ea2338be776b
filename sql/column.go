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

// ColumnID identifies a column within a single resolution session.
// Ids increase monotonically as the resolver allocates them; two
// distinct source columns never share an id, and a column keeps its id
// across every clause that refers to it.
type ColumnID uint64

// Column is a named output of a relational operator.
type Column struct {
	// ID is the session-unique id assigned at allocation.
	ID ColumnID
	// Table is the range variable or table alias the column is visible
	// under, empty for anonymous computed columns.
	Table string
	// Name is the column name, empty for unnamed select-list items.
	Name string
	// Type is the column's resolved type.
	Type Type
}

// Schema is the ordered column list produced by a relational operator.
type Schema []Column

// IndexOf returns the position of the first column matching the given
// name under the given table qualifier, or -1. An empty table matches
// any qualifier.
func (s Schema) IndexOf(table, name string) int {
	for i, c := range s {
		if c.Name == name && (table == "" || c.Table == table) {
			return i
		}
	}
	return -1
}

// IndexOfID returns the position of the column with the given id,
// or -1.
func (s Schema) IndexOfID(id ColumnID) int {
	for i, c := range s {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Copy returns a schema that shares no backing storage with s.
func (s Schema) Copy() Schema {
	out := make(Schema, len(s))
	copy(out, s)
	return out
}
