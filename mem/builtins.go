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

package mem

import "github.com/georgewfraser/zetasql/sql"

// AddBuiltins registers a small set of common functions: enough for
// realistic queries without a full function library.
func (c *Catalog) AddBuiltins() *Catalog {
	firstArg := func(args []sql.Type) sql.Type { return args[0] }

	c.AddFunction(&sql.Function{
		Name:        "count",
		IsAggregate: true,
		Signatures: []sql.FunctionSignature{
			{Args: []sql.Type{sql.AnyType}, Result: sql.Int64},
			{Args: nil, Result: sql.Int64},
		},
	})
	c.AddFunction(&sql.Function{
		Name:        "sum",
		IsAggregate: true,
		Signatures: []sql.FunctionSignature{
			{Args: []sql.Type{sql.Int64}, Result: sql.Int64},
			{Args: []sql.Type{sql.Float64}, Result: sql.Float64},
			{Args: []sql.Type{sql.Numeric}, Result: sql.Numeric},
		},
	})
	c.AddFunction(&sql.Function{
		Name:        "avg",
		IsAggregate: true,
		Signatures: []sql.FunctionSignature{
			{Args: []sql.Type{sql.Float64}, Result: sql.Float64},
			{Args: []sql.Type{sql.Numeric}, Result: sql.Numeric},
		},
	})
	c.AddFunction(&sql.Function{
		Name:        "min",
		IsAggregate: true,
		Signatures: []sql.FunctionSignature{
			{Args: []sql.Type{sql.AnyType}, ResultFn: firstArg},
		},
	})
	c.AddFunction(&sql.Function{
		Name:        "max",
		IsAggregate: true,
		Signatures: []sql.FunctionSignature{
			{Args: []sql.Type{sql.AnyType}, ResultFn: firstArg},
		},
	})

	c.AddFunction(&sql.Function{
		Name: "concat",
		Signatures: []sql.FunctionSignature{
			{Args: []sql.Type{sql.String}, Variadic: true, Result: sql.String},
		},
	})
	c.AddFunction(&sql.Function{
		Name: "lower",
		Signatures: []sql.FunctionSignature{
			{Args: []sql.Type{sql.String}, Result: sql.String},
		},
	})
	c.AddFunction(&sql.Function{
		Name: "abs",
		Signatures: []sql.FunctionSignature{
			{Args: []sql.Type{sql.Int64}, Result: sql.Int64},
			{Args: []sql.Type{sql.Float64}, Result: sql.Float64},
		},
	})

	c.AddFunction(&sql.Function{
		Name:       "row_number",
		IsAnalytic: true,
		Signatures: []sql.FunctionSignature{
			{Args: nil, Result: sql.Int64},
		},
	})
	c.AddFunction(&sql.Function{
		Name:       "rank",
		IsAnalytic: true,
		Signatures: []sql.FunctionSignature{
			{Args: nil, Result: sql.Int64},
		},
	})

	return c
}
