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
	"strings"

	"github.com/georgewfraser/zetasql/sql"
)

// FunctionCall is a resolved call of a scalar catalog function.
type FunctionCall struct {
	name string
	args []sql.Expression
	typ  sql.Type
}

// NewFunctionCall creates a scalar function call producing the given
// type.
func NewFunctionCall(name string, typ sql.Type, args ...sql.Expression) *FunctionCall {
	return &FunctionCall{name: name, args: args, typ: typ}
}

// Name returns the called function's name.
func (f *FunctionCall) Name() string { return f.name }

// Type implements the Expression interface.
func (f *FunctionCall) Type() sql.Type { return f.typ }

// IsNullable implements the Expression interface.
func (f *FunctionCall) IsNullable() bool { return true }

// Children implements the Expression interface.
func (f *FunctionCall) Children() []sql.Expression { return f.args }

// WithChildren implements the Expression interface.
func (f *FunctionCall) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != len(f.args) {
		return nil, sql.ErrInvalidChildrenNumber.New(f, len(children), len(f.args))
	}
	return NewFunctionCall(f.name, f.typ, children...), nil
}

func (f *FunctionCall) String() string {
	return formatCall(f.name, false, f.args)
}

// AggregateFunctionCall is a resolved call of an aggregate function.
// It only appears in the aggregate list of a grouping operator.
type AggregateFunctionCall struct {
	name     string
	args     []sql.Expression
	typ      sql.Type
	distinct bool
}

// NewAggregateFunctionCall creates an aggregate call producing the
// given type.
func NewAggregateFunctionCall(name string, typ sql.Type, distinct bool, args ...sql.Expression) *AggregateFunctionCall {
	return &AggregateFunctionCall{name: name, args: args, typ: typ, distinct: distinct}
}

// Name returns the called function's name.
func (f *AggregateFunctionCall) Name() string { return f.name }

// Distinct returns whether the call aggregates distinct inputs only.
func (f *AggregateFunctionCall) Distinct() bool { return f.distinct }

// Type implements the Expression interface.
func (f *AggregateFunctionCall) Type() sql.Type { return f.typ }

// IsNullable implements the Expression interface.
func (f *AggregateFunctionCall) IsNullable() bool { return true }

// Children implements the Expression interface.
func (f *AggregateFunctionCall) Children() []sql.Expression { return f.args }

// WithChildren implements the Expression interface.
func (f *AggregateFunctionCall) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != len(f.args) {
		return nil, sql.ErrInvalidChildrenNumber.New(f, len(children), len(f.args))
	}
	return NewAggregateFunctionCall(f.name, f.typ, f.distinct, children...), nil
}

func (f *AggregateFunctionCall) String() string {
	return formatCall(f.name, f.distinct, f.args)
}

// AnalyticFunctionCall is a resolved call of a function with an OVER
// clause. It only appears in the function list of a window operator.
type AnalyticFunctionCall struct {
	name        string
	args        []sql.Expression
	typ         sql.Type
	partitionBy []sql.Expression
	orderBy     []SortField
}

// NewAnalyticFunctionCall creates an analytic call producing the given
// type over the given window.
func NewAnalyticFunctionCall(name string, typ sql.Type, args, partitionBy []sql.Expression, orderBy []SortField) *AnalyticFunctionCall {
	return &AnalyticFunctionCall{
		name:        name,
		args:        args,
		typ:         typ,
		partitionBy: partitionBy,
		orderBy:     orderBy,
	}
}

// Name returns the called function's name.
func (f *AnalyticFunctionCall) Name() string { return f.name }

// PartitionBy returns the window partitioning expressions.
func (f *AnalyticFunctionCall) PartitionBy() []sql.Expression { return f.partitionBy }

// OrderBy returns the window ordering.
func (f *AnalyticFunctionCall) OrderBy() []SortField { return f.orderBy }

// Type implements the Expression interface.
func (f *AnalyticFunctionCall) Type() sql.Type { return f.typ }

// IsNullable implements the Expression interface.
func (f *AnalyticFunctionCall) IsNullable() bool { return true }

// Children implements the Expression interface.
func (f *AnalyticFunctionCall) Children() []sql.Expression { return f.args }

// WithChildren implements the Expression interface.
func (f *AnalyticFunctionCall) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != len(f.args) {
		return nil, sql.ErrInvalidChildrenNumber.New(f, len(children), len(f.args))
	}
	return NewAnalyticFunctionCall(f.name, f.typ, children, f.partitionBy, f.orderBy), nil
}

func (f *AnalyticFunctionCall) String() string {
	var window []string
	if len(f.partitionBy) > 0 {
		parts := make([]string, len(f.partitionBy))
		for i, p := range f.partitionBy {
			parts[i] = p.String()
		}
		window = append(window, "PARTITION BY "+strings.Join(parts, ", "))
	}
	if len(f.orderBy) > 0 {
		keys := make([]string, len(f.orderBy))
		for i, s := range f.orderBy {
			keys[i] = s.String()
		}
		window = append(window, "ORDER BY "+strings.Join(keys, ", "))
	}
	return fmt.Sprintf("%s OVER (%s)", formatCall(f.name, false, f.args), strings.Join(window, " "))
}

func formatCall(name string, distinct bool, args []sql.Expression) string {
	strs := make([]string, len(args))
	for i, arg := range args {
		strs[i] = arg.String()
	}
	if distinct {
		return fmt.Sprintf("%s(DISTINCT %s)", name, strings.Join(strs, ", "))
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(strs, ", "))
}
