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

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/georgewfraser/zetasql/sql"
)

func TestCatalogLookups(t *testing.T) {
	require := require.New(t)

	cat := NewCatalog().
		AddTable(&sql.Table{Name: "Orders", Columns: []sql.TableColumn{
			{Name: "id", Type: sql.Int64},
		}}).
		AddFunction(&sql.Function{Name: "MyFunc", Signatures: []sql.FunctionSignature{
			{Args: nil, Result: sql.Int64},
		}}).
		AddType("Color", sql.MustCreateEnumType("Color", []sql.EnumValue{
			{Name: "RED", Number: 0},
		}))

	// Lookups are case-insensitive on the last path part.
	tbl, ok := cat.Table([]string{"orders"})
	require.True(ok)
	require.Equal("Orders", tbl.Name)

	tbl, ok = cat.Table([]string{"dataset", "ORDERS"})
	require.True(ok)
	require.Equal("Orders", tbl.Name)

	_, ok = cat.Table([]string{"missing"})
	require.False(ok)
	_, ok = cat.Table(nil)
	require.False(ok)

	fn, ok := cat.Function("myfunc")
	require.True(ok)
	require.Equal("MyFunc", fn.Name)

	typ, ok := cat.LookupType("color")
	require.True(ok)
	require.Equal(sql.TypeKindEnum, typ.Kind())
}

func TestCatalogConversions(t *testing.T) {
	require := require.New(t)

	ev, err := sql.NewConversionEvaluator(sql.Int64, sql.String,
		func(v sql.Value) (sql.Value, error) {
			return sql.NewString(v.String()), nil
		})
	require.NoError(err)

	conv, err := sql.NewConversion(ev, sql.ExplicitCast)
	require.NoError(err)

	cat := NewCatalog().AddConversion(conv)

	found, err := cat.FindConversion(sql.Int64, sql.String, sql.FindConversionOptions{IsExplicit: true})
	require.NoError(err)
	require.True(found.IsValid())

	// Explicit-only conversions do not match implicit lookups.
	_, err = cat.FindConversion(sql.Int64, sql.String, sql.FindConversionOptions{})
	require.True(sql.ErrConversionNotFound.Is(err))

	_, err = cat.FindConversion(sql.Float64, sql.String, sql.FindConversionOptions{IsExplicit: true})
	require.True(sql.ErrConversionNotFound.Is(err))
}

func TestAddBuiltins(t *testing.T) {
	require := require.New(t)

	cat := NewCatalog().AddBuiltins()

	count, ok := cat.Function("count")
	require.True(ok)
	require.True(count.IsAggregate)
	require.Len(count.Signatures, 2)

	rowNumber, ok := cat.Function("row_number")
	require.True(ok)
	require.True(rowNumber.IsAnalytic)

	lower, ok := cat.Function("lower")
	require.True(ok)
	require.False(lower.IsAggregate)
}
