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

import "gopkg.in/src-d/go-errors.v1"

// ErrConversionNotFound is returned by conversion sources when no
// conversion exists between two types under the requested options.
var ErrConversionNotFound = errors.NewKind("conversion from type %s to type %s is not found")

// FindConversionOptions constrains a conversion lookup to the context
// the coercion appears in.
type FindConversionOptions struct {
	// IsExplicit is set for CAST syntax. Explicit lookups match any
	// conversion strictness.
	IsExplicit bool
	// SourceKind is the kind of expression being coerced. Ignored when
	// IsExplicit is set.
	SourceKind ConversionSourceKind
}

// ConversionSource finds conversions that involve extended types.
type ConversionSource interface {
	// FindConversion returns a conversion between the two types that
	// matches the given options, or ErrConversionNotFound.
	FindConversion(from, to Type, opts FindConversionOptions) (Conversion, error)
}

// FindConversionFunc adapts a function to the ConversionSource
// interface.
type FindConversionFunc func(from, to Type, opts FindConversionOptions) (Conversion, error)

// FindConversion implements the ConversionSource interface.
func (f FindConversionFunc) FindConversion(from, to Type, opts FindConversionOptions) (Conversion, error) {
	return f(from, to, opts)
}

// TableColumn is a column declared by a catalog table. Column ids are
// assigned per reference during resolution, not here.
type TableColumn struct {
	Name string
	Type Type
}

// Table is a named relation in the catalog.
type Table struct {
	Name    string
	Columns []TableColumn
	// IsValueTable marks tables whose rows are single values rather
	// than field lists. A scan of a value table produces one column
	// holding the row value.
	IsValueTable bool
}

// TableFunction is a catalog function invoked in a FROM clause.
type TableFunction struct {
	Name string
	// Args are the expected scalar argument types.
	Args []Type
	// Columns describe the produced relation.
	Columns      []TableColumn
	IsValueTable bool
}

// Catalog resolves names that are not defined by the query itself:
// tables, functions and named types. Lookups are case-insensitive on
// the last path part; how the leading parts are interpreted is up to
// the implementation.
type Catalog interface {
	ConversionSource

	// Table returns the table with the given path, if any.
	Table(path []string) (*Table, bool)
	// Function returns the scalar, aggregate or analytic function with
	// the given name, if any.
	Function(name string) (*Function, bool)
	// TableFunction returns the table function with the given name, if
	// any.
	TableFunction(name string) (*TableFunction, bool)
	// LookupType returns the named type, if any.
	LookupType(name string) (Type, bool)
}
