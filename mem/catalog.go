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

// Package mem provides an in-memory catalog, mainly for tests and
// examples.
package mem

import (
	"strings"

	"github.com/georgewfraser/zetasql/sql"
)

// Catalog is an in-memory implementation of sql.Catalog.
type Catalog struct {
	tables         map[string]*sql.Table
	functions      map[string]*sql.Function
	tableFunctions map[string]*sql.TableFunction
	types          map[string]sql.Type
	conversions    []sql.Conversion
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		tables:         make(map[string]*sql.Table),
		functions:      make(map[string]*sql.Function),
		tableFunctions: make(map[string]*sql.TableFunction),
		types:          make(map[string]sql.Type),
	}
}

// AddTable registers a table under its name.
func (c *Catalog) AddTable(t *sql.Table) *Catalog {
	c.tables[strings.ToLower(t.Name)] = t
	return c
}

// AddFunction registers a function under its name.
func (c *Catalog) AddFunction(f *sql.Function) *Catalog {
	c.functions[strings.ToLower(f.Name)] = f
	return c
}

// AddTableFunction registers a table function under its name.
func (c *Catalog) AddTableFunction(f *sql.TableFunction) *Catalog {
	c.tableFunctions[strings.ToLower(f.Name)] = f
	return c
}

// AddType registers a named type.
func (c *Catalog) AddType(name string, t sql.Type) *Catalog {
	c.types[strings.ToLower(name)] = t
	return c
}

// AddConversion registers a conversion for casts involving extended
// types.
func (c *Catalog) AddConversion(conv sql.Conversion) *Catalog {
	c.conversions = append(c.conversions, conv)
	return c
}

// Table implements the Catalog interface. Paths resolve on their last
// part; leading qualifiers are ignored.
func (c *Catalog) Table(path []string) (*sql.Table, bool) {
	if len(path) == 0 {
		return nil, false
	}
	t, ok := c.tables[strings.ToLower(path[len(path)-1])]
	return t, ok
}

// Function implements the Catalog interface.
func (c *Catalog) Function(name string) (*sql.Function, bool) {
	f, ok := c.functions[strings.ToLower(name)]
	return f, ok
}

// TableFunction implements the Catalog interface.
func (c *Catalog) TableFunction(name string) (*sql.TableFunction, bool) {
	f, ok := c.tableFunctions[strings.ToLower(name)]
	return f, ok
}

// LookupType implements the Catalog interface.
func (c *Catalog) LookupType(name string) (sql.Type, bool) {
	t, ok := c.types[strings.ToLower(name)]
	return t, ok
}

// FindConversion implements the ConversionSource interface.
func (c *Catalog) FindConversion(from, to sql.Type, opts sql.FindConversionOptions) (sql.Conversion, error) {
	for _, conv := range c.conversions {
		ev := conv.Evaluator()
		if ev.FromType().Equals(from) && ev.ToType().Equals(to) && conv.IsMatch(opts) {
			return conv, nil
		}
	}
	return sql.InvalidConversion(), sql.ErrConversionNotFound.New(from, to)
}
