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
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/types/descriptorpb"
)

func TestGetCastType(t *testing.T) {
	testCases := []struct {
		from, to TypeKind
		expected CastType
		ok       bool
	}{
		{TypeKindInt64, TypeKindFloat64, ImplicitCast, true},
		{TypeKindInt64, TypeKindBool, ExplicitCast, true},
		{TypeKindString, TypeKindDate, ExplicitOrLiteralOrParameterCast, true},
		{TypeKindString, TypeKindNumeric, ExplicitCast, true},
		{TypeKindUint64, TypeKindEnum, ExplicitOrLiteralCast, true},
		{TypeKindInt64, TypeKindEnum, ExplicitOrLiteralOrParameterCast, true},
		{TypeKindFloat64, TypeKindFloat32, ExplicitOrLiteralCast, true},
		{TypeKindDate, TypeKindDatetime, ImplicitCast, true},
		{TypeKindBool, TypeKindDate, 0, false},
		{TypeKindBytes, TypeKindInt64, 0, false},
	}

	for _, tt := range testCases {
		ct, ok := GetCastType(tt.from, tt.to)
		require.Equal(t, tt.ok, ok, "%s -> %s", tt.from, tt.to)
		if tt.ok {
			require.Equal(t, tt.expected, ct, "%s -> %s", tt.from, tt.to)
		}
	}
}

func TestCastValueIdentity(t *testing.T) {
	require := require.New(t)

	v, err := CastValue(NewInt64(42), Int64, CastOptions{})
	require.NoError(err)
	require.Equal(NewInt64(42), v)

	v, err = CastValue(NewString("abc"), String, CastOptions{})
	require.NoError(err)
	require.Equal(NewString("abc"), v)
}

func TestCastValueNullPreservation(t *testing.T) {
	require := require.New(t)

	v, err := CastValue(Null(Int64), Float64, CastOptions{})
	require.NoError(err)
	require.True(v.IsNull())
	require.Equal(Float64, v.Type())

	// NULL does not make an illegal cast legal.
	_, err = CastValue(Null(Bool), Date, CastOptions{})
	require.True(ErrUnsupportedCast.Is(err))
}

func TestCastValueNumbers(t *testing.T) {
	testCases := []struct {
		name     string
		in       Value
		to       Type
		expected Value
	}{
		{"int64 to bool", NewInt64(1), Bool, NewBool(true)},
		{"zero to bool", NewInt64(0), Bool, NewBool(false)},
		{"bool to int64", NewBool(true), Int64, NewInt64(1)},
		{"int64 to double", NewInt64(3), Float64, NewFloat64(3)},
		{"round half away", NewFloat64(2.5), Int64, NewInt64(3)},
		{"round negative half away", NewFloat64(-2.5), Int64, NewInt64(-3)},
		{"uint64 to int64", NewUint64(7), Int64, NewInt64(7)},
		{"string to int64", NewString("-12"), Int64, NewInt64(-12)},
		{"int64 to string", NewInt64(-12), String, NewString("-12")},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			v, err := CastValue(tt.in, tt.to, CastOptions{})
			require.NoError(t, err)
			require.Equal(t, tt.expected, v)
		})
	}
}

func TestCastValueOutOfRange(t *testing.T) {
	testCases := []struct {
		name string
		in   Value
		to   Type
	}{
		{"negative to uint64", NewInt64(-1), Uint64},
		{"overflow int32", NewInt64(1 << 40), Int32},
		{"huge double to int64", NewFloat64(1e300), Int64},
		{"nan to int64", NewFloat64(nan()), Int64},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CastValue(tt.in, tt.to, CastOptions{})
			require.True(t, ErrCastOutOfRange.Is(err), "got %v", err)
		})
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestCastValueParseErrors(t *testing.T) {
	_, err := CastValue(NewString("not a number"), Int64, CastOptions{})
	require.True(t, ErrCastParse.Is(err))

	_, err = CastValue(NewString("maybe"), Bool, CastOptions{})
	require.True(t, ErrCastParse.Is(err))
}

func TestCastValueNumeric(t *testing.T) {
	require := require.New(t)

	v, err := CastValue(NewString("1.25"), Numeric, CastOptions{})
	require.NoError(err)
	require.True(v.NumericValue().Equal(decimal.RequireFromString("1.25")))

	v, err = CastValue(NewNumeric(decimal.RequireFromString("2.7")), Int64, CastOptions{})
	require.NoError(err)
	require.Equal(NewInt64(3), v)
}

func TestCastValueTemporal(t *testing.T) {
	require := require.New(t)

	v, err := CastValue(NewString("2024-01-05"), Date, CastOptions{})
	require.NoError(err)
	require.Equal(TypeKindDate, v.Kind())
	require.Equal(2024, v.DateValue().Year())
	require.Equal(time.January, v.DateValue().Month())
	require.Equal(5, v.DateValue().Day())

	// DATE widens to DATETIME at midnight.
	dt, err := CastValue(v, Datetime, CastOptions{})
	require.NoError(err)
	require.Equal(TypeKindDatetime, dt.Kind())
	require.Equal(0, dt.DatetimeValue().Hour())
}

func TestCastValueStruct(t *testing.T) {
	require := require.New(t)

	from := CreateStructType(
		StructField{Name: "a", Type: Int64},
		StructField{Name: "b", Type: Int64},
	)
	to := CreateStructType(
		StructField{Name: "x", Type: Float64},
		StructField{Name: "y", Type: String},
	)

	in, err := NewStruct(from, []Value{NewInt64(1), NewInt64(2)})
	require.NoError(err)

	v, err := CastValue(in, to, CastOptions{})
	require.NoError(err)
	fields := v.Fields()
	require.Equal(NewFloat64(1), fields[0])
	require.Equal(NewString("2"), fields[1])

	narrow := CreateStructType(StructField{Name: "x", Type: Int64})
	_, err = CastValue(in, narrow, CastOptions{})
	require.True(ErrStructCastArity.Is(err))
}

func TestCastValueArray(t *testing.T) {
	require := require.New(t)

	from := CreateArrayType(Int64)
	to := CreateArrayType(String)

	in := NewArray(from, []Value{NewInt64(1), Null(Int64), NewInt64(3)})
	v, err := CastValue(in, to, CastOptions{})
	require.NoError(err)

	elems := v.Elements()
	require.Len(elems, 3)
	require.Equal(NewString("1"), elems[0])
	require.True(elems[1].IsNull())
	require.Equal(String, elems[1].Type())
	require.Equal(NewString("3"), elems[2])
	require.True(v.OrderedArray())
}

func TestCastValueEnum(t *testing.T) {
	require := require.New(t)

	color := MustCreateEnumType("Color", []EnumValue{
		{Name: "RED", Number: 0},
		{Name: "GREEN", Number: 1},
	})

	v, err := CastValue(NewInt64(1), color, CastOptions{})
	require.NoError(err)
	require.Equal("GREEN", v.EnumName())

	v, err = CastValue(NewString("RED"), color, CastOptions{})
	require.NoError(err)
	require.Equal(int32(0), v.EnumNumber())

	red, err := NewEnum(color, 0)
	require.NoError(err)
	s, err := CastValue(red, String, CastOptions{})
	require.NoError(err)
	require.Equal(NewString("RED"), s)
}

func TestCastValueBytesString(t *testing.T) {
	require := require.New(t)

	v, err := CastValue(NewBytes([]byte("ok")), String, CastOptions{})
	require.NoError(err)
	require.Equal(NewString("ok"), v)

	_, err = CastValue(NewBytes([]byte{0xff, 0xfe}), String, CastOptions{})
	require.True(ErrInvalidUTF8.Is(err))
}

func TestCastValueExtendedNeedsSource(t *testing.T) {
	_, err := CastValue(NewInt64(1), extendedTestType{}, CastOptions{})
	require.True(t, ErrExtendedCastNotConfigured.Is(err))
}

func TestCastValueExtendedWithSource(t *testing.T) {
	require := require.New(t)

	ev, err := NewConversionEvaluator(Int64, extendedTestType{}, func(v Value) (Value, error) {
		return NewString("ext:" + v.String()), nil
	})
	require.NoError(err)
	conv, err := NewConversion(ev, ExplicitCast)
	require.NoError(err)

	source := FindConversionFunc(func(from, to Type, opts FindConversionOptions) (Conversion, error) {
		if from.Equals(Int64) && to.Equals(extendedTestType{}) && opts.IsExplicit {
			return conv, nil
		}
		return InvalidConversion(), ErrConversionNotFound.New(from, to)
	})

	v, err := CastValue(NewInt64(7), extendedTestType{}, CastOptions{Conversions: source})
	require.NoError(err)
	require.Equal(NewString("ext:7"), v)

	_, err = CastValue(NewString("7"), extendedTestType{}, CastOptions{Conversions: source})
	require.True(ErrConversionNotFound.Is(err))
}

type extendedTestType struct{}

func (extendedTestType) Kind() TypeKind             { return TypeKindExtended }
func (extendedTestType) String() string             { return "EXT" }
func (extendedTestType) ExtensionName() string      { return "EXT" }
func (extendedTestType) Equals(other Type) bool     { _, ok := other.(extendedTestType); return ok }
func (extendedTestType) Equivalent(other Type) bool { _, ok := other.(extendedTestType); return ok }

// TestCastValueTotality runs every pair in the compatibility table
// against a representative value and a NULL of the source kind. Every
// pair must produce a value of the destination kind or a defined
// evaluation error; none may reach the unimplemented arm.
func TestCastValueTotality(t *testing.T) {
	color := MustCreateEnumType("Color", []EnumValue{{Name: "RED", Number: 0}})
	event := testProtoType(t)
	arr := CreateArrayType(Int64)
	str := CreateStructType(StructField{Name: "a", Type: Int64})

	enumValue, err := NewEnum(color, 0)
	require.NoError(t, err)
	structValue, err := NewStruct(str, []Value{NewInt64(1)})
	require.NoError(t, err)

	toTypes := map[TypeKind]Type{
		TypeKindBool:      Bool,
		TypeKindInt32:     Int32,
		TypeKindInt64:     Int64,
		TypeKindUint32:    Uint32,
		TypeKindUint64:    Uint64,
		TypeKindNumeric:   Numeric,
		TypeKindFloat32:   Float32,
		TypeKindFloat64:   Float64,
		TypeKindString:    String,
		TypeKindBytes:     Bytes,
		TypeKindDate:      Date,
		TypeKindTime:      Time,
		TypeKindDatetime:  Datetime,
		TypeKindTimestamp: Timestamp,
		TypeKindEnum:      color,
		TypeKindProto:     event,
		TypeKindArray:     arr,
		TypeKindStruct:    str,
	}
	fromValues := map[TypeKind]Value{
		TypeKindBool:      NewBool(true),
		TypeKindInt32:     NewInt32(1),
		TypeKindInt64:     NewInt64(1),
		TypeKindUint32:    NewUint32(1),
		TypeKindUint64:    NewUint64(1),
		TypeKindNumeric:   NewNumeric(decimal.NewFromInt(1)),
		TypeKindFloat32:   NewFloat32(1.5),
		TypeKindFloat64:   NewFloat64(1.5),
		TypeKindString:    NewString("1"),
		TypeKindBytes:     NewBytes([]byte("ok")),
		TypeKindDate:      NewDate(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
		TypeKindTime:      NewTime(90 * time.Minute),
		TypeKindDatetime:  NewDatetime(time.Date(2024, 1, 5, 12, 30, 0, 0, time.UTC)),
		TypeKindTimestamp: NewTimestamp(time.Date(2024, 1, 5, 12, 30, 0, 0, time.UTC)),
		TypeKindEnum:      enumValue,
		TypeKindProto:     NewProto(event, []byte{}),
		TypeKindArray:     NewArray(arr, []Value{NewInt64(1)}),
		TypeKindStruct:    structValue,
	}

	for pair := range castTable {
		name := pair.from.String() + "_to_" + pair.to.String()
		t.Run(name, func(t *testing.T) {
			from, ok := fromValues[pair.from]
			require.True(t, ok, "no representative value for %s", pair.from)
			to, ok := toTypes[pair.to]
			require.True(t, ok, "no representative type for %s", pair.to)

			v, err := CastValue(from, to, CastOptions{})
			if err != nil {
				require.False(t, ErrUnimplementedCast.Is(err))
				require.False(t, ErrUnsupportedCast.Is(err))
			} else {
				require.True(t, v.IsValid())
				require.Equal(t, pair.to, v.Type().Kind())
			}

			nv, err := CastValue(Null(from.Type()), to, CastOptions{})
			require.NoError(t, err)
			require.True(t, nv.IsNull())
			require.Equal(t, pair.to, nv.Type().Kind())
		})
	}
}

func testProtoType(t *testing.T) *ProtoType {
	t.Helper()
	file := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("event.proto"),
		Package: proto.String("test"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: proto.String("Event"),
			Field: []*descriptorpb.FieldDescriptorProto{{
				Name:     proto.String("id"),
				JsonName: proto.String("id"),
				Number:   proto.Int32(1),
				Type:     descriptorpb.FieldDescriptorProto_TYPE_INT64.Enum(),
				Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
			}},
		}},
	}
	fd, err := protodesc.NewFile(file, nil)
	require.NoError(t, err)
	return MustCreateProtoType(fd.Messages().Get(0))
}
