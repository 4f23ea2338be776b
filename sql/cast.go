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
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// CastType describes the strictness of a cast between two type kinds.
// Casts that coerce implicitly also coerce in every looser context, so
// the predicates below are cumulative rather than exclusive.
type CastType int8

const (
	// ImplicitCast casts apply in any context without explicit syntax.
	ImplicitCast CastType = iota + 1
	// ExplicitCast casts require CAST syntax.
	ExplicitCast
	// ExplicitOrLiteralCast casts additionally apply to literal
	// arguments without CAST syntax.
	ExplicitOrLiteralCast
	// ExplicitOrLiteralOrParameterCast casts additionally apply to
	// literals and to query parameters without CAST syntax.
	ExplicitOrLiteralOrParameterCast
)

// SupportsImplicitCoercion returns whether the cast applies to an
// arbitrary expression without explicit syntax.
func (t CastType) SupportsImplicitCoercion() bool {
	return t == ImplicitCast
}

// SupportsLiteralCoercion returns whether the cast applies to a literal
// argument without explicit syntax.
func (t CastType) SupportsLiteralCoercion() bool {
	return t == ImplicitCast || t == ExplicitOrLiteralCast ||
		t == ExplicitOrLiteralOrParameterCast
}

// SupportsParameterCoercion returns whether the cast applies to a query
// parameter without explicit syntax.
func (t CastType) SupportsParameterCoercion() bool {
	return t == ImplicitCast || t == ExplicitOrLiteralOrParameterCast
}

// SupportsExplicitCast returns whether the cast is legal with CAST
// syntax. Every entry in the compatibility table satisfies this.
func (t CastType) SupportsExplicitCast() bool {
	return t == ImplicitCast || t == ExplicitCast ||
		t == ExplicitOrLiteralCast || t == ExplicitOrLiteralOrParameterCast
}

type typeKindPair struct {
	from TypeKind
	to   TypeKind
}

// castTable is the static compatibility table between type kinds.
// Pairs of composite kinds (struct/struct, array/array, enum/enum,
// proto/proto) appear here at kind granularity; structural
// compatibility is checked separately.
var castTable = initCastTable()

func initCastTable() map[typeKindPair]CastType {
	m := make(map[typeKindPair]CastType)
	add := func(from, to TypeKind, ct CastType) {
		m[typeKindPair{from, to}] = ct
	}

	add(TypeKindBool, TypeKindBool, ImplicitCast)
	add(TypeKindBool, TypeKindInt32, ExplicitCast)
	add(TypeKindBool, TypeKindInt64, ExplicitCast)
	add(TypeKindBool, TypeKindUint32, ExplicitCast)
	add(TypeKindBool, TypeKindUint64, ExplicitCast)
	add(TypeKindBool, TypeKindString, ExplicitCast)

	add(TypeKindInt32, TypeKindBool, ExplicitCast)
	add(TypeKindInt32, TypeKindInt32, ImplicitCast)
	add(TypeKindInt32, TypeKindInt64, ImplicitCast)
	add(TypeKindInt32, TypeKindUint32, ExplicitOrLiteralCast)
	add(TypeKindInt32, TypeKindUint64, ExplicitOrLiteralCast)
	add(TypeKindInt32, TypeKindFloat32, ExplicitOrLiteralCast)
	add(TypeKindInt32, TypeKindFloat64, ImplicitCast)
	add(TypeKindInt32, TypeKindNumeric, ImplicitCast)
	add(TypeKindInt32, TypeKindString, ExplicitCast)
	add(TypeKindInt32, TypeKindEnum, ExplicitOrLiteralOrParameterCast)

	add(TypeKindInt64, TypeKindBool, ExplicitCast)
	add(TypeKindInt64, TypeKindInt32, ExplicitOrLiteralCast)
	add(TypeKindInt64, TypeKindInt64, ImplicitCast)
	add(TypeKindInt64, TypeKindUint32, ExplicitOrLiteralCast)
	add(TypeKindInt64, TypeKindUint64, ExplicitOrLiteralCast)
	add(TypeKindInt64, TypeKindFloat32, ExplicitOrLiteralCast)
	add(TypeKindInt64, TypeKindFloat64, ImplicitCast)
	add(TypeKindInt64, TypeKindNumeric, ImplicitCast)
	add(TypeKindInt64, TypeKindString, ExplicitCast)
	add(TypeKindInt64, TypeKindEnum, ExplicitOrLiteralOrParameterCast)

	add(TypeKindUint32, TypeKindBool, ExplicitCast)
	add(TypeKindUint32, TypeKindInt32, ExplicitOrLiteralCast)
	add(TypeKindUint32, TypeKindInt64, ImplicitCast)
	add(TypeKindUint32, TypeKindUint32, ImplicitCast)
	add(TypeKindUint32, TypeKindUint64, ImplicitCast)
	add(TypeKindUint32, TypeKindFloat32, ExplicitOrLiteralCast)
	add(TypeKindUint32, TypeKindFloat64, ImplicitCast)
	add(TypeKindUint32, TypeKindNumeric, ImplicitCast)
	add(TypeKindUint32, TypeKindString, ExplicitCast)
	add(TypeKindUint32, TypeKindEnum, ExplicitOrLiteralCast)

	add(TypeKindUint64, TypeKindBool, ExplicitCast)
	add(TypeKindUint64, TypeKindInt32, ExplicitOrLiteralCast)
	add(TypeKindUint64, TypeKindInt64, ExplicitOrLiteralCast)
	add(TypeKindUint64, TypeKindUint32, ExplicitOrLiteralCast)
	add(TypeKindUint64, TypeKindUint64, ImplicitCast)
	add(TypeKindUint64, TypeKindFloat32, ExplicitOrLiteralCast)
	add(TypeKindUint64, TypeKindFloat64, ImplicitCast)
	add(TypeKindUint64, TypeKindNumeric, ImplicitCast)
	add(TypeKindUint64, TypeKindString, ExplicitCast)
	add(TypeKindUint64, TypeKindEnum, ExplicitOrLiteralCast)

	add(TypeKindNumeric, TypeKindInt32, ExplicitCast)
	add(TypeKindNumeric, TypeKindInt64, ExplicitCast)
	add(TypeKindNumeric, TypeKindUint32, ExplicitCast)
	add(TypeKindNumeric, TypeKindUint64, ExplicitCast)
	add(TypeKindNumeric, TypeKindFloat32, ExplicitCast)
	add(TypeKindNumeric, TypeKindFloat64, ImplicitCast)
	add(TypeKindNumeric, TypeKindNumeric, ImplicitCast)
	add(TypeKindNumeric, TypeKindString, ExplicitCast)

	add(TypeKindFloat32, TypeKindInt32, ExplicitCast)
	add(TypeKindFloat32, TypeKindInt64, ExplicitCast)
	add(TypeKindFloat32, TypeKindUint32, ExplicitCast)
	add(TypeKindFloat32, TypeKindUint64, ExplicitCast)
	add(TypeKindFloat32, TypeKindFloat32, ImplicitCast)
	add(TypeKindFloat32, TypeKindFloat64, ImplicitCast)
	add(TypeKindFloat32, TypeKindNumeric, ExplicitCast)
	add(TypeKindFloat32, TypeKindString, ExplicitCast)

	add(TypeKindFloat64, TypeKindInt32, ExplicitCast)
	add(TypeKindFloat64, TypeKindInt64, ExplicitCast)
	add(TypeKindFloat64, TypeKindUint32, ExplicitCast)
	add(TypeKindFloat64, TypeKindUint64, ExplicitCast)
	add(TypeKindFloat64, TypeKindFloat32, ExplicitOrLiteralCast)
	add(TypeKindFloat64, TypeKindFloat64, ImplicitCast)
	add(TypeKindFloat64, TypeKindNumeric, ExplicitOrLiteralCast)
	add(TypeKindFloat64, TypeKindString, ExplicitCast)

	add(TypeKindString, TypeKindBool, ExplicitCast)
	add(TypeKindString, TypeKindInt32, ExplicitCast)
	add(TypeKindString, TypeKindInt64, ExplicitCast)
	add(TypeKindString, TypeKindUint32, ExplicitCast)
	add(TypeKindString, TypeKindUint64, ExplicitCast)
	add(TypeKindString, TypeKindFloat32, ExplicitCast)
	add(TypeKindString, TypeKindFloat64, ExplicitCast)
	add(TypeKindString, TypeKindNumeric, ExplicitCast)
	add(TypeKindString, TypeKindString, ImplicitCast)
	add(TypeKindString, TypeKindBytes, ExplicitCast)
	add(TypeKindString, TypeKindDate, ExplicitOrLiteralOrParameterCast)
	add(TypeKindString, TypeKindTimestamp, ExplicitOrLiteralOrParameterCast)
	add(TypeKindString, TypeKindTime, ExplicitOrLiteralOrParameterCast)
	add(TypeKindString, TypeKindDatetime, ExplicitOrLiteralOrParameterCast)
	add(TypeKindString, TypeKindEnum, ExplicitOrLiteralOrParameterCast)
	add(TypeKindString, TypeKindProto, ExplicitOrLiteralOrParameterCast)

	add(TypeKindBytes, TypeKindBytes, ImplicitCast)
	add(TypeKindBytes, TypeKindString, ExplicitCast)
	add(TypeKindBytes, TypeKindProto, ExplicitOrLiteralOrParameterCast)

	add(TypeKindDate, TypeKindDate, ImplicitCast)
	add(TypeKindDate, TypeKindDatetime, ImplicitCast)
	add(TypeKindDate, TypeKindTimestamp, ExplicitCast)
	add(TypeKindDate, TypeKindString, ExplicitCast)

	add(TypeKindTimestamp, TypeKindDate, ExplicitCast)
	add(TypeKindTimestamp, TypeKindDatetime, ExplicitCast)
	add(TypeKindTimestamp, TypeKindTime, ExplicitCast)
	add(TypeKindTimestamp, TypeKindTimestamp, ImplicitCast)
	add(TypeKindTimestamp, TypeKindString, ExplicitCast)

	add(TypeKindTime, TypeKindTime, ImplicitCast)
	add(TypeKindTime, TypeKindString, ExplicitCast)

	add(TypeKindDatetime, TypeKindDate, ExplicitCast)
	add(TypeKindDatetime, TypeKindDatetime, ImplicitCast)
	add(TypeKindDatetime, TypeKindTime, ExplicitCast)
	add(TypeKindDatetime, TypeKindTimestamp, ExplicitCast)
	add(TypeKindDatetime, TypeKindString, ExplicitCast)

	add(TypeKindEnum, TypeKindString, ExplicitCast)
	add(TypeKindEnum, TypeKindInt32, ExplicitCast)
	add(TypeKindEnum, TypeKindInt64, ExplicitCast)
	add(TypeKindEnum, TypeKindUint32, ExplicitCast)
	add(TypeKindEnum, TypeKindUint64, ExplicitCast)
	add(TypeKindEnum, TypeKindEnum, ImplicitCast)

	add(TypeKindProto, TypeKindString, ExplicitCast)
	add(TypeKindProto, TypeKindBytes, ExplicitCast)
	add(TypeKindProto, TypeKindProto, ImplicitCast)

	add(TypeKindArray, TypeKindArray, ImplicitCast)
	add(TypeKindStruct, TypeKindStruct, ImplicitCast)

	return m
}

// GetCastType returns the table entry for the given kind pair and
// whether one exists.
func GetCastType(from, to TypeKind) (CastType, bool) {
	ct, ok := castTable[typeKindPair{from, to}]
	return ct, ok
}

// CastOptions configures cast evaluation.
type CastOptions struct {
	// Location is the default time zone used when converting between
	// timestamps and civil time types. Defaults to UTC.
	Location *time.Location
	// Language enables optional behavior. Defaults to
	// DefaultLanguageOptions.
	Language *LanguageOptions
	// Conversions resolves casts that involve extended types. Casts
	// touching an extended type fail when nil.
	Conversions ConversionSource
}

func (o CastOptions) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

func (o CastOptions) language() *LanguageOptions {
	if o.Language == nil {
		return defaultLanguageOptions
	}
	return o.Language
}

// fct packs a kind pair for dispatch.
func fct(from, to TypeKind) uint64 {
	return uint64(from)<<32 | uint64(to)
}

// isMapEntryCast reports whether this is a cast from a two-field struct
// to a map entry message.
func isMapEntryCast(from, to Type) bool {
	st, ok := from.(*StructType)
	if !ok || st.NumFields() != 2 {
		return false
	}
	pt, ok := to.(*ProtoType)
	return ok && pt.Descriptor().IsMapEntry()
}

// CastValue converts a value to the given type. The cast must have an
// entry in the compatibility table; every entry has an evaluator, so a
// table hit that still fails to dispatch reports ErrUnimplementedCast.
// A NULL input casts to a NULL of the destination type whenever the
// cast itself is legal.
func CastValue(v Value, to Type, opts CastOptions) (Value, error) {
	if !v.IsValid() || to == nil {
		return Value{}, ErrInvalidCastValue.New()
	}

	from := v.Type()
	if from.Equals(to) {
		return v, nil
	}

	if _, ok := from.(ExtendedType); ok {
		return castWithConversionSource(v, to, opts)
	}
	if _, ok := to.(ExtendedType); ok {
		return castWithConversionSource(v, to, opts)
	}

	// Structs are not generally castable to protos, except two-field
	// structs matching a map entry message.
	if opts.language().ProtoMaps && isMapEntryCast(from, to) {
		return castMapEntry(v, to.(*ProtoType), opts)
	}

	if _, ok := GetCastType(from.Kind(), to.Kind()); !ok {
		return Value{}, ErrUnsupportedCast.New(from, to)
	}

	if v.IsNull() {
		if !from.Kind().IsSimple() && from.Kind() == to.Kind() {
			// A kind match is not enough for composite types. Check the
			// element or field structure before declaring the NULL
			// castable.
			if !validExplicitCast(from, to) {
				return Value{}, ErrUnsupportedCast.New(from, to)
			}
		}
		return Null(to), nil
	}

	switch fct(from.Kind(), to.Kind()) {
	// Numeric casts. Identity casts are handled above.
	case fct(TypeKindInt32, TypeKindBool):
		return NewBool(v.Int32Value() != 0), nil
	case fct(TypeKindInt32, TypeKindInt64):
		return NewInt64(int64(v.Int32Value())), nil
	case fct(TypeKindInt32, TypeKindUint32),
		fct(TypeKindInt32, TypeKindUint64):
		return castSignedTo(int64(v.Int32Value()), to)
	case fct(TypeKindInt32, TypeKindFloat32):
		return NewFloat32(float32(v.Int32Value())), nil
	case fct(TypeKindInt32, TypeKindFloat64):
		return NewFloat64(float64(v.Int32Value())), nil
	case fct(TypeKindInt32, TypeKindNumeric):
		return NewNumeric(decimal.NewFromInt32(v.Int32Value())), nil
	case fct(TypeKindInt32, TypeKindString):
		return numberToString(v)

	case fct(TypeKindInt64, TypeKindBool):
		return NewBool(v.Int64Value() != 0), nil
	case fct(TypeKindInt64, TypeKindInt32),
		fct(TypeKindInt64, TypeKindUint32),
		fct(TypeKindInt64, TypeKindUint64):
		return castSignedTo(v.Int64Value(), to)
	case fct(TypeKindInt64, TypeKindFloat32):
		return NewFloat32(float32(v.Int64Value())), nil
	case fct(TypeKindInt64, TypeKindFloat64):
		return NewFloat64(float64(v.Int64Value())), nil
	case fct(TypeKindInt64, TypeKindNumeric):
		return NewNumeric(decimal.NewFromInt(v.Int64Value())), nil
	case fct(TypeKindInt64, TypeKindString):
		return numberToString(v)

	case fct(TypeKindUint32, TypeKindBool):
		return NewBool(v.Uint32Value() != 0), nil
	case fct(TypeKindUint32, TypeKindInt32):
		return castUnsignedTo(uint64(v.Uint32Value()), to)
	case fct(TypeKindUint32, TypeKindInt64):
		return NewInt64(int64(v.Uint32Value())), nil
	case fct(TypeKindUint32, TypeKindUint64):
		return NewUint64(uint64(v.Uint32Value())), nil
	case fct(TypeKindUint32, TypeKindFloat32):
		return NewFloat32(float32(v.Uint32Value())), nil
	case fct(TypeKindUint32, TypeKindFloat64):
		return NewFloat64(float64(v.Uint32Value())), nil
	case fct(TypeKindUint32, TypeKindNumeric):
		return NewNumeric(decimal.NewFromInt(int64(v.Uint32Value()))), nil
	case fct(TypeKindUint32, TypeKindString):
		return numberToString(v)

	case fct(TypeKindUint64, TypeKindBool):
		return NewBool(v.Uint64Value() != 0), nil
	case fct(TypeKindUint64, TypeKindInt32),
		fct(TypeKindUint64, TypeKindInt64),
		fct(TypeKindUint64, TypeKindUint32):
		return castUnsignedTo(v.Uint64Value(), to)
	case fct(TypeKindUint64, TypeKindFloat32):
		return NewFloat32(float32(v.Uint64Value())), nil
	case fct(TypeKindUint64, TypeKindFloat64):
		return NewFloat64(float64(v.Uint64Value())), nil
	case fct(TypeKindUint64, TypeKindNumeric):
		return NewNumeric(decimalFromUint64(v.Uint64Value())), nil
	case fct(TypeKindUint64, TypeKindString):
		return numberToString(v)

	case fct(TypeKindBool, TypeKindInt32):
		return NewInt32(int32(boolToInt(v.BoolValue()))), nil
	case fct(TypeKindBool, TypeKindInt64):
		return NewInt64(boolToInt(v.BoolValue())), nil
	case fct(TypeKindBool, TypeKindUint32):
		return NewUint32(uint32(boolToInt(v.BoolValue()))), nil
	case fct(TypeKindBool, TypeKindUint64):
		return NewUint64(uint64(boolToInt(v.BoolValue()))), nil
	case fct(TypeKindBool, TypeKindString):
		return numberToString(v)

	case fct(TypeKindFloat32, TypeKindInt32),
		fct(TypeKindFloat32, TypeKindInt64),
		fct(TypeKindFloat32, TypeKindUint32),
		fct(TypeKindFloat32, TypeKindUint64):
		return castFloatTo(float64(v.Float32Value()), to)
	case fct(TypeKindFloat32, TypeKindFloat64):
		return NewFloat64(float64(v.Float32Value())), nil
	case fct(TypeKindFloat32, TypeKindNumeric):
		return floatToNumeric(float64(v.Float32Value()))
	case fct(TypeKindFloat32, TypeKindString):
		return numberToString(v)

	case fct(TypeKindFloat64, TypeKindInt32),
		fct(TypeKindFloat64, TypeKindInt64),
		fct(TypeKindFloat64, TypeKindUint32),
		fct(TypeKindFloat64, TypeKindUint64),
		fct(TypeKindFloat64, TypeKindFloat32):
		return castFloatTo(v.Float64Value(), to)
	case fct(TypeKindFloat64, TypeKindNumeric):
		return floatToNumeric(v.Float64Value())
	case fct(TypeKindFloat64, TypeKindString):
		return numberToString(v)

	case fct(TypeKindNumeric, TypeKindInt32),
		fct(TypeKindNumeric, TypeKindInt64),
		fct(TypeKindNumeric, TypeKindUint32),
		fct(TypeKindNumeric, TypeKindUint64),
		fct(TypeKindNumeric, TypeKindFloat32),
		fct(TypeKindNumeric, TypeKindFloat64):
		return castDecimalTo(v.NumericValue(), to)
	case fct(TypeKindNumeric, TypeKindString):
		return numberToString(v)

	// Enum casts.
	case fct(TypeKindInt32, TypeKindEnum):
		return NewEnum(to.(*EnumType), v.Int32Value())
	case fct(TypeKindInt64, TypeKindEnum):
		return int64ToEnum(v.Int64Value(), to.(*EnumType))
	case fct(TypeKindUint32, TypeKindEnum):
		return int64ToEnum(int64(v.Uint32Value()), to.(*EnumType))
	case fct(TypeKindUint64, TypeKindEnum):
		// Out-of-bound values convert to negative numbers, which never
		// name an enum value and fail the range check below.
		return int64ToEnum(int64(v.Uint64Value()), to.(*EnumType))
	case fct(TypeKindString, TypeKindEnum):
		return NewEnumByName(to.(*EnumType), v.StringValue())
	case fct(TypeKindEnum, TypeKindString):
		return NewString(v.EnumName()), nil
	case fct(TypeKindEnum, TypeKindInt32):
		return NewInt32(v.EnumNumber()), nil
	case fct(TypeKindEnum, TypeKindInt64):
		return NewInt64(int64(v.EnumNumber())), nil
	case fct(TypeKindEnum, TypeKindUint32),
		fct(TypeKindEnum, TypeKindUint64):
		return castSignedTo(int64(v.EnumNumber()), to)
	case fct(TypeKindEnum, TypeKindEnum):
		if !from.Equivalent(to) {
			return Value{}, ErrUnsupportedCast.New(from, to)
		}
		return NewEnum(to.(*EnumType), v.EnumNumber())

	// String parsing casts.
	case fct(TypeKindString, TypeKindBool),
		fct(TypeKindString, TypeKindInt32),
		fct(TypeKindString, TypeKindInt64),
		fct(TypeKindString, TypeKindUint32),
		fct(TypeKindString, TypeKindUint64),
		fct(TypeKindString, TypeKindFloat32),
		fct(TypeKindString, TypeKindFloat64),
		fct(TypeKindString, TypeKindNumeric):
		return stringToNumber(v.StringValue(), to)

	case fct(TypeKindString, TypeKindBytes):
		return NewBytes([]byte(v.StringValue())), nil
	case fct(TypeKindBytes, TypeKindString):
		if !utf8.Valid(v.BytesValue()) {
			return Value{}, ErrInvalidUTF8.New()
		}
		return NewString(string(v.BytesValue())), nil

	// Civil time casts.
	case fct(TypeKindString, TypeKindDate):
		t, err := ParseDate(v.StringValue())
		if err != nil {
			return Value{}, err
		}
		return NewDate(t), nil
	case fct(TypeKindString, TypeKindTime):
		d, err := ParseTimeOfDay(v.StringValue(), opts.language().Scale())
		if err != nil {
			return Value{}, err
		}
		return NewTime(d), nil
	case fct(TypeKindString, TypeKindDatetime):
		t, err := ParseDatetime(v.StringValue(), opts.language().Scale())
		if err != nil {
			return Value{}, err
		}
		return NewDatetime(t), nil
	case fct(TypeKindString, TypeKindTimestamp):
		t, err := ParseTimestamp(v.StringValue(), opts.language().Scale(), opts.location())
		if err != nil {
			return Value{}, err
		}
		return NewTimestamp(t), nil

	case fct(TypeKindDate, TypeKindString):
		return NewString(FormatDate(v.DateValue())), nil
	case fct(TypeKindTime, TypeKindString):
		return NewString(FormatTimeOfDay(v.TimeValue(), opts.language().Scale())), nil
	case fct(TypeKindDatetime, TypeKindString):
		return NewString(FormatDatetime(v.DatetimeValue(), opts.language().Scale())), nil
	case fct(TypeKindTimestamp, TypeKindString):
		return NewString(FormatTimestamp(v.TimestampValue(), opts.language().Scale(), opts.location())), nil

	case fct(TypeKindDate, TypeKindDatetime):
		return NewDatetime(v.DateValue()), nil
	case fct(TypeKindDate, TypeKindTimestamp):
		d := v.DateValue()
		return NewTimestamp(time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, opts.location())), nil

	case fct(TypeKindTimestamp, TypeKindDate):
		local := v.TimestampValue().In(opts.location())
		return NewDate(time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)), nil
	case fct(TypeKindTimestamp, TypeKindDatetime):
		local := v.TimestampValue().In(opts.location())
		return NewDatetime(civilTime(local)), nil
	case fct(TypeKindTimestamp, TypeKindTime):
		local := v.TimestampValue().In(opts.location())
		return NewTime(sinceMidnight(local, opts.language().Scale())), nil

	case fct(TypeKindDatetime, TypeKindDate):
		d := v.DatetimeValue()
		return NewDate(time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)), nil
	case fct(TypeKindDatetime, TypeKindTime):
		return NewTime(sinceMidnight(v.DatetimeValue(), opts.language().Scale())), nil
	case fct(TypeKindDatetime, TypeKindTimestamp):
		d := v.DatetimeValue()
		return NewTimestamp(time.Date(d.Year(), d.Month(), d.Day(),
			d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), opts.location())), nil

	// Composite casts recurse on the element or field structure.
	case fct(TypeKindStruct, TypeKindStruct):
		return castStruct(v, to.(*StructType), opts)
	case fct(TypeKindArray, TypeKindArray):
		return castArray(v, to.(*ArrayType), opts)

	// Proto casts.
	case fct(TypeKindString, TypeKindProto):
		return stringToProto(v.StringValue(), to.(*ProtoType))
	case fct(TypeKindProto, TypeKindString):
		return protoToString(v)
	case fct(TypeKindBytes, TypeKindProto):
		// No validation of the serialized bytes happens here.
		return NewProto(to.(*ProtoType), v.BytesValue()), nil
	case fct(TypeKindProto, TypeKindBytes):
		return NewBytes(v.ProtoBytes()), nil
	case fct(TypeKindProto, TypeKindProto):
		if !from.Equivalent(to) {
			return Value{}, ErrUnsupportedCast.New(from, to)
		}
		return NewProto(to.(*ProtoType), v.ProtoBytes()), nil
	}

	return Value{}, ErrUnimplementedCast.New(from, to)
}

func castWithConversionSource(v Value, to Type, opts CastOptions) (Value, error) {
	if opts.Conversions == nil {
		name := v.Type().String()
		if et, ok := to.(ExtendedType); ok {
			name = et.ExtensionName()
		}
		return Value{}, ErrExtendedCastNotConfigured.New(name)
	}
	conv, err := opts.Conversions.FindConversion(v.Type(), to, FindConversionOptions{
		IsExplicit: true,
		SourceKind: ConversionSourceLiteral,
	})
	if err != nil {
		return Value{}, err
	}
	return conv.Evaluator().Eval(v)
}

func castStruct(v Value, to *StructType, opts CastOptions) (Value, error) {
	fromType := v.Type().(*StructType)
	if fromType.NumFields() != to.NumFields() {
		return Value{}, ErrStructCastArity.New(fromType.NumFields(), to.NumFields())
	}

	fields := make([]Value, to.NumFields())
	for i, f := range v.Fields() {
		cast, err := CastValue(f, to.Field(i).Type, opts)
		if err != nil {
			return Value{}, err
		}
		fields[i] = cast
	}
	return NewStruct(to, fields)
}

func castArray(v Value, to *ArrayType, opts CastOptions) (Value, error) {
	if !validExplicitCast(v.Type(), to) {
		return Value{}, ErrUnsupportedCast.New(v.Type(), to)
	}

	elems := make([]Value, len(v.Elements()))
	for i, e := range v.Elements() {
		if e.IsNull() {
			elems[i] = Null(to.Elem())
			continue
		}
		cast, err := CastValue(e, to.Elem(), opts)
		if err != nil {
			return Value{}, err
		}
		elems[i] = cast
	}

	if v.OrderedArray() {
		return NewArray(to, elems), nil
	}
	return NewUnorderedArray(to, elems), nil
}

// castMapEntry casts a two-field struct to a map entry message. The
// first field becomes the entry's key and the second its value.
func castMapEntry(v Value, to *ProtoType, opts CastOptions) (Value, error) {
	desc := to.Descriptor()
	keyField := desc.Fields().ByNumber(1)
	valueField := desc.Fields().ByNumber(2)
	if keyField == nil || valueField == nil {
		return Value{}, ErrUnsupportedCast.New(v.Type(), to)
	}

	if v.IsNull() {
		return Value{}, ErrUnsupportedCast.New(v.Type(), to)
	}

	msg := dynamicpb.NewMessage(desc)
	for i, field := range []protoreflect.FieldDescriptor{keyField, valueField} {
		target, ok := typeForProtoField(field)
		if !ok {
			return Value{}, ErrUnsupportedCast.New(v.Type(), to)
		}
		cast, err := CastValue(v.Fields()[i], target, opts)
		if err != nil {
			return Value{}, err
		}
		if cast.IsNull() {
			continue
		}
		pv, err := protoFieldValue(cast, field)
		if err != nil {
			return Value{}, err
		}
		msg.Set(field, pv)
	}

	data, err := proto.Marshal(msg)
	if err != nil {
		return Value{}, ErrProtoConversion.New("to type", to, err)
	}
	return NewProto(to, data), nil
}

func stringToProto(s string, to *ProtoType) (Value, error) {
	msg := dynamicpb.NewMessage(to.Descriptor())
	if err := prototext.Unmarshal([]byte(s), msg); err != nil {
		return Value{}, ErrProtoConversion.New("to type", to, err)
	}
	data, err := proto.Marshal(msg)
	if err != nil {
		return Value{}, ErrProtoConversion.New("to type", to, err)
	}
	return NewProto(to, data), nil
}

func protoToString(v Value) (Value, error) {
	pt := v.Type().(*ProtoType)
	msg := dynamicpb.NewMessage(pt.Descriptor())
	if err := proto.Unmarshal(v.ProtoBytes(), msg); err != nil {
		return Value{}, ErrProtoConversion.New("to string from type", pt, err)
	}
	return NewString(prototext.MarshalOptions{Multiline: false}.Format(msg)), nil
}
