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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoercesToStrictness(t *testing.T) {
	c := NewCoercer(nil)

	testCases := []struct {
		name       string
		from, to   Type
		kind       ConversionSourceKind
		isExplicit bool
		expected   bool
	}{
		{"int64 widens to double", Int64, Float64, ConversionSourceGeneral, false, true},
		{"double does not narrow implicitly", Float64, Int64, ConversionSourceGeneral, false, false},
		{"double narrows explicitly", Float64, Int64, ConversionSourceGeneral, true, true},
		{"string literal to date", String, Date, ConversionSourceLiteral, false, true},
		{"string parameter to date", String, Date, ConversionSourceParameter, false, true},
		{"general string to date", String, Date, ConversionSourceGeneral, false, false},
		{"string literal to numeric", String, Numeric, ConversionSourceLiteral, false, false},
		{"explicit string to numeric", String, Numeric, ConversionSourceGeneral, true, true},
		{"double literal to float", Float64, Float32, ConversionSourceLiteral, false, true},
		{"double parameter to float", Float64, Float32, ConversionSourceParameter, false, false},
		{"date to datetime implicitly", Date, Datetime, ConversionSourceGeneral, false, true},
		{"bool never to date", Bool, Date, ConversionSourceGeneral, true, false},
		{"same type always", String, String, ConversionSourceGeneral, false, true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := c.CoercesTo(tt.from, tt.to, tt.kind, tt.isExplicit)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestCoercesToEnum(t *testing.T) {
	require := require.New(t)
	c := NewCoercer(nil)

	color := MustCreateEnumType("Color", []EnumValue{{Name: "RED", Number: 0}})

	// Integer literals reach enums, unsigned ones only as literals.
	require.True(c.CoercesTo(Int64, color, ConversionSourceLiteral, false))
	require.True(c.CoercesTo(Int64, color, ConversionSourceParameter, false))
	require.True(c.CoercesTo(Uint64, color, ConversionSourceLiteral, false))
	require.False(c.CoercesTo(Uint64, color, ConversionSourceParameter, false))
	require.False(c.CoercesTo(Int64, color, ConversionSourceGeneral, false))
	require.True(c.CoercesTo(Int64, color, ConversionSourceGeneral, true))
}

func TestCoercesToComposite(t *testing.T) {
	require := require.New(t)
	c := NewCoercer(nil)

	from := CreateStructType(
		StructField{Name: "a", Type: Int64},
		StructField{Name: "b", Type: Date},
	)
	to := CreateStructType(
		StructField{Name: "x", Type: Float64},
		StructField{Name: "y", Type: Datetime},
	)
	require.True(c.CoercesTo(from, to, ConversionSourceGeneral, false))

	narrower := CreateStructType(StructField{Name: "x", Type: Int64})
	require.False(c.CoercesTo(from, narrower, ConversionSourceGeneral, false))

	// Implicit array coercion needs equivalent element types; explicit
	// casts convert element-wise.
	require.False(c.CoercesTo(CreateArrayType(Int64), CreateArrayType(String), ConversionSourceGeneral, false))
	require.True(c.CoercesTo(CreateArrayType(Int64), CreateArrayType(String), ConversionSourceGeneral, true))
}

func TestSupertype(t *testing.T) {
	c := NewCoercer(nil)

	testCases := []struct {
		name     string
		a, b     Type
		expected Type
		ok       bool
	}{
		{"same type", Int64, Int64, Int64, true},
		{"int64 and double", Int64, Float64, Float64, true},
		{"int32 and int64", Int32, Int64, Int64, true},
		{"int64 and uint64 meet at numeric", Int64, Uint64, Numeric, true},
		{"date and datetime", Date, Datetime, Datetime, true},
		{"date and timestamp do not meet", Date, Timestamp, nil, false},
		{"string and int64 do not meet", String, Int64, nil, false},
		{"bool and date do not meet", Bool, Date, nil, false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Supertype(tt.a, tt.b)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.expected, got)
			}
		})
	}
}
