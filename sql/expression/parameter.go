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

package expression

import (
	"fmt"

	"github.com/georgewfraser/zetasql/sql"
)

// Parameter is a query parameter. Named parameters carry their name,
// positional ones their 1-based ordinal.
type Parameter struct {
	name    string
	ordinal int
	typ     sql.Type
}

// NewNamedParameter creates a named parameter of the given type.
func NewNamedParameter(name string, typ sql.Type) *Parameter {
	return &Parameter{name: name, typ: typ}
}

// NewPositionalParameter creates a positional parameter of the given
// type.
func NewPositionalParameter(ordinal int, typ sql.Type) *Parameter {
	return &Parameter{ordinal: ordinal, typ: typ}
}

// Name returns the parameter name, empty for positional parameters.
func (p *Parameter) Name() string { return p.name }

// Ordinal returns the 1-based position, zero for named parameters.
func (p *Parameter) Ordinal() int { return p.ordinal }

// Type implements the Expression interface.
func (p *Parameter) Type() sql.Type { return p.typ }

// IsNullable implements the Expression interface.
func (p *Parameter) IsNullable() bool { return true }

// Children implements the Expression interface.
func (p *Parameter) Children() []sql.Expression { return nil }

// WithChildren implements the Expression interface.
func (p *Parameter) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), 0)
	}
	return p, nil
}

func (p *Parameter) String() string {
	if p.name != "" {
		return "@" + p.name
	}
	return fmt.Sprintf("?%d", p.ordinal)
}
